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

// Package semverset adapts github.com/Masterminds/semver/v3 into the
// pubgrub.Version/pubgrub.Condition boundary, so a solver can be built
// against real semantic-version parsing and range grammar (caret, tilde,
// hyphen ranges, comparator chains) instead of the engine's built-in
// SemanticVersion/VersionSetCondition pair.
package semverset

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/fathomtree/pubgrub"
)

// Version wraps a Masterminds/semver Version to satisfy pubgrub.Version.
type Version struct {
	v *semver.Version
}

// NewVersion parses s as a semantic version.
func NewVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("semverset: parse version %q: %w", s, err)
	}
	return Version{v: v}, nil
}

// MustVersion is like NewVersion but panics on a malformed string. Intended
// for fixtures and tests, not for parsing untrusted input.
func MustVersion(s string) Version {
	v, err := NewVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Sort implements pubgrub.Version.
func (v Version) Sort(other pubgrub.Version) int {
	o, ok := other.(Version)
	if !ok {
		return strings.Compare(v.String(), other.String())
	}
	return v.v.Compare(o.v)
}

// Condition wraps a Masterminds/semver Constraints value to satisfy
// pubgrub.Condition and pubgrub.VersionSetConverter.
type Condition struct {
	raw string
	c   *semver.Constraints
	set pubgrub.VersionSet
}

// NewCondition parses body using Masterminds/semver constraint grammar
// (">=1.2.3, <2.0.0", "^1.2.3", "~1.2", "1.x", "1.2.3 - 2.0.0", "||" unions)
// and builds the equivalent pubgrub.VersionSet eagerly, so later set algebra
// never has to re-derive it from the opaque *semver.Constraints value.
func NewCondition(body string) (Condition, error) {
	c, err := semver.NewConstraints(body)
	if err != nil {
		return Condition{}, fmt.Errorf("semverset: parse constraint %q: %w", body, err)
	}
	set, err := constraintToVersionSet(body)
	if err != nil {
		return Condition{}, err
	}
	return Condition{raw: body, c: c, set: set}, nil
}

// MustCondition is like NewCondition but panics on a malformed string.
func MustCondition(body string) Condition {
	c, err := NewCondition(body)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Condition) String() string {
	return c.raw
}

// Satisfies implements pubgrub.Condition using Masterminds/semver's own
// comparator evaluation, independent of the VersionSet translation below.
func (c Condition) Satisfies(ver pubgrub.Version) bool {
	v, ok := ver.(Version)
	if !ok {
		return false
	}
	return c.c.Check(v.v)
}

// ToVersionSet implements pubgrub.VersionSetConverter.
func (c Condition) ToVersionSet() pubgrub.VersionSet {
	return c.set
}

var (
	_ pubgrub.Version             = Version{}
	_ pubgrub.Condition           = Condition{}
	_ pubgrub.VersionSetConverter = Condition{}
)
