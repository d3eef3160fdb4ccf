// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semverset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fathomtree/pubgrub"
)

// constraintToVersionSet translates a Masterminds/semver constraint string
// into the equivalent pubgrub.VersionSet. It supports the same grammar
// Masterminds/semver.NewConstraints itself accepts: "||" for OR, whitespace
// or "," for AND, comparator operators (=, !=, >, <, >=, <=), caret (^) and
// tilde (~) ranges, hyphen ranges ("1.2.3 - 2.0.0"), and "x"/"*" wildcards.
//
// This mirrors the engine's own hand-rolled ParseVersionRange in spirit
// (split OR, then AND, then dispatch per comparator) but follows
// Masterminds' grammar rather than the engine's native one.
func constraintToVersionSet(body string) (pubgrub.VersionSet, error) {
	body = strings.TrimSpace(body)
	if body == "" || body == "*" {
		return pubgrub.FullVersionSet(), nil
	}

	result := pubgrub.EmptyVersionSet()
	for _, orPart := range strings.Split(body, "||") {
		orPart = strings.TrimSpace(orPart)
		if orPart == "" {
			return nil, fmt.Errorf("semverset: empty OR branch in %q", body)
		}
		branch, err := andBranchToVersionSet(orPart)
		if err != nil {
			return nil, err
		}
		result = result.Union(branch)
	}
	return result, nil
}

func andBranchToVersionSet(branch string) (pubgrub.VersionSet, error) {
	if strings.Contains(branch, " - ") {
		return hyphenRangeToVersionSet(branch)
	}

	current := pubgrub.FullVersionSet()
	for _, tok := range strings.Fields(strings.ReplaceAll(branch, ",", " ")) {
		if tok == "" {
			continue
		}
		set, err := termToVersionSet(tok)
		if err != nil {
			return nil, err
		}
		current = current.Intersection(set)
	}
	return current, nil
}

func hyphenRangeToVersionSet(branch string) (pubgrub.VersionSet, error) {
	parts := strings.SplitN(branch, " - ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("semverset: malformed hyphen range %q", branch)
	}
	lo, err := NewVersion(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	hi, err := NewVersion(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	return pubgrub.NewVersionRangeSet(lo, true, hi, true), nil
}

func termToVersionSet(tok string) (pubgrub.VersionSet, error) {
	switch {
	case strings.HasPrefix(tok, "^"):
		return caretToVersionSet(tok[1:])
	case strings.HasPrefix(tok, "~"):
		return tildeToVersionSet(tok[1:])
	case strings.HasPrefix(tok, ">="):
		v, err := partialVersion(tok[2:], false)
		if err != nil {
			return nil, err
		}
		return pubgrub.NewLowerBoundVersionSet(v, true), nil
	case strings.HasPrefix(tok, ">"):
		v, err := partialVersion(tok[1:], false)
		if err != nil {
			return nil, err
		}
		return pubgrub.NewLowerBoundVersionSet(v, false), nil
	case strings.HasPrefix(tok, "<="):
		v, err := partialVersion(tok[2:], true)
		if err != nil {
			return nil, err
		}
		return pubgrub.NewUpperBoundVersionSet(v, true), nil
	case strings.HasPrefix(tok, "<"):
		v, err := partialVersion(tok[1:], true)
		if err != nil {
			return nil, err
		}
		return pubgrub.NewUpperBoundVersionSet(v, false), nil
	case strings.HasPrefix(tok, "!="):
		v, err := NewVersion(tok[2:])
		if err != nil {
			return nil, err
		}
		eq := pubgrub.NewVersionRangeSet(v, true, v, true)
		return eq.Complement(), nil
	case strings.HasPrefix(tok, "="):
		return wildcardOrExact(tok[1:])
	default:
		return wildcardOrExact(tok)
	}
}

// wildcardOrExact handles bare versions and "x"/"*" partials ("1.2.x" means
// ">=1.2.0 <1.3.0", "1.x" means ">=1.0.0 <2.0.0").
func wildcardOrExact(tok string) (pubgrub.VersionSet, error) {
	if !strings.ContainsAny(tok, "xX*") {
		v, err := NewVersion(tok)
		if err != nil {
			return nil, err
		}
		return pubgrub.NewVersionRangeSet(v, true, v, true), nil
	}
	major, minor, hasMinor, err := partialComponents(tok)
	if err != nil {
		return nil, err
	}
	if !hasMinor {
		lo := MustVersion(fmt.Sprintf("%d.0.0", major))
		hi := MustVersion(fmt.Sprintf("%d.0.0", major+1))
		return pubgrub.NewVersionRangeSet(lo, true, hi, false), nil
	}
	lo := MustVersion(fmt.Sprintf("%d.%d.0", major, minor))
	hi := MustVersion(fmt.Sprintf("%d.%d.0", major, minor+1))
	return pubgrub.NewVersionRangeSet(lo, true, hi, false), nil
}

// caretToVersionSet implements npm-style caret ranges: ^1.2.3 means
// >=1.2.3 <2.0.0; ^0.2.3 means >=0.2.3 <0.3.0; ^0.0.3 means >=0.0.3 <0.0.4.
func caretToVersionSet(raw string) (pubgrub.VersionSet, error) {
	lo, err := NewVersion(raw)
	if err != nil {
		return nil, err
	}
	major, minor, patch := components(lo)
	var hi Version
	switch {
	case major > 0:
		hi = MustVersion(fmt.Sprintf("%d.0.0", major+1))
	case minor > 0:
		hi = MustVersion(fmt.Sprintf("0.%d.0", minor+1))
	default:
		hi = MustVersion(fmt.Sprintf("0.0.%d", patch+1))
	}
	return pubgrub.NewVersionRangeSet(lo, true, hi, false), nil
}

// tildeToVersionSet implements ~1.2.3 meaning >=1.2.3 <1.3.0; ~1.2 meaning
// >=1.2.0 <1.3.0; ~1 meaning >=1.0.0 <2.0.0.
func tildeToVersionSet(raw string) (pubgrub.VersionSet, error) {
	major, minor, hasMinor, err := partialComponents(raw)
	if err != nil {
		return nil, err
	}
	lo, err := NewVersion(normalizeFull(raw))
	if err != nil {
		return nil, err
	}
	if !hasMinor {
		hi := MustVersion(fmt.Sprintf("%d.0.0", major+1))
		return pubgrub.NewVersionRangeSet(lo, true, hi, false), nil
	}
	hi := MustVersion(fmt.Sprintf("%d.%d.0", major, minor+1))
	return pubgrub.NewVersionRangeSet(lo, true, hi, false), nil
}

func components(v Version) (major, minor, patch uint64) {
	return v.v.Major(), v.v.Minor(), v.v.Patch()
}

// partialComponents parses a dotted prefix ("1", "1.2", "1.2.x") into its
// numeric major/minor components.
func partialComponents(raw string) (major, minor int, hasMinor bool, err error) {
	raw = strings.TrimRight(raw, ".xX*")
	raw = strings.TrimSuffix(raw, ".")
	parts := strings.Split(raw, ".")
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false, fmt.Errorf("semverset: invalid version component in %q: %w", raw, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false, fmt.Errorf("semverset: invalid version component in %q: %w", raw, err)
		}
		return major, minor, true, nil
	}
	return major, 0, false, nil
}

// normalizeFull pads a partial version ("1", "1.2") out to major.minor.patch
// so it can be parsed by semver.NewVersion.
func normalizeFull(raw string) string {
	parts := strings.Split(raw, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}

// partialVersion parses a possibly-partial comparator operand, expanding
// ">1.2" to the version that makes the comparator's intent exact, per
// Masterminds/semver's own partial-version comparator semantics.
func partialVersion(raw string, isUpper bool) (Version, error) {
	raw = strings.TrimSpace(raw)
	return NewVersion(normalizeFull(raw))
}
