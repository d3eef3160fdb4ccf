// Copyright 2024 The University of Queensland
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

package pubgrub

import (
	"fmt"
	"strings"
)

// IncompatibilityKind represents the type/origin of an incompatibility
type IncompatibilityKind int

const (
	// KindNoVersions means no versions satisfy the constraint
	KindNoVersions IncompatibilityKind = iota
	// KindFromDependency means incompatibility from a package dependency
	KindFromDependency
	// KindConflict means derived from conflict resolution
	KindConflict
	// KindPackageNotFound means the source reports the package as entirely
	// unknown (as opposed to known but versionless).
	KindPackageNotFound
	// KindRoot tags the synthetic incompatibility that pins the root
	// package to its declared version, the foundation every other
	// incompatibility ultimately traces back to.
	KindRoot
)

// NewIncompatibilityRoot creates the synthetic incompatibility that anchors
// the root package to its single declared version: {¬root@version}.
func NewIncompatibilityRoot(root Name, version Version) *Incompatibility {
	return &Incompatibility{
		Terms:   []Term{NewNegativeTerm(root, EqualsCondition{Version: version})},
		Kind:    KindRoot,
		Package: root,
		Version: version,
	}
}

// Incompatibility represents a set of package requirements that cannot all be satisfied
type Incompatibility struct {
	// Terms that are incompatible
	Terms []Term
	// Kind of incompatibility
	Kind IncompatibilityKind
	// Cause1 and Cause2 are set for derived incompatibilities (Kind == KindConflict)
	Cause1 *Incompatibility
	Cause2 *Incompatibility
	// Package and Version for KindFromDependency
	Package Name
	Version Version
}

// NewIncompatibilityNoVersions creates an incompatibility for when no versions exist
func NewIncompatibilityNoVersions(term Term) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{term},
		Kind:  KindNoVersions,
	}
}

// NewIncompatibilityFromDependency creates an incompatibility from a dependency
// Represents: package@version depends on dependency
// Per PubGrub spec: "foo ^1.0.0 depends on bar ^2.0.0" â†’ {foo ^1.0.0, not bar ^2.0.0}
func NewIncompatibilityFromDependency(pkg Name, ver Version, dependency Term) *Incompatibility {
	base := NewTerm(pkg, EqualsCondition{Version: ver}) // Positive term for the package
	negatedDep := dependency.Negate()                   // Negate the dependency
	terms := []Term{base, negatedDep}
	return &Incompatibility{
		Terms:   terms,
		Kind:    KindFromDependency,
		Package: pkg,
		Version: ver,
	}
}

// NewIncompatibilityPackageNotFound creates an incompatibility for a
// dependency target the source does not recognize at all.
func NewIncompatibilityPackageNotFound(pkg Name) *Incompatibility {
	return &Incompatibility{
		Terms:   []Term{NewNegativeTerm(pkg, nil)},
		Kind:    KindPackageNotFound,
		Package: pkg,
	}
}

// NewIncompatibilityConflict creates a derived incompatibility from two causes.
// Terms that constrain the same package are folded together by intersection
// rather than naively deduplicated, per the term algebra's merge rules.
func NewIncompatibilityConflict(terms []Term, cause1, cause2 *Incompatibility) *Incompatibility {
	order := make([]Name, 0, len(terms))
	byName := make(map[Name][]Term, len(terms))
	for _, term := range terms {
		if _, seen := byName[term.Name]; !seen {
			order = append(order, term.Name)
		}
		byName[term.Name] = append(byName[term.Name], term)
	}

	merged := make([]Term, 0, len(order))
	for _, name := range order {
		if t, ok := mergeTermsForPackage(byName[name]); ok {
			merged = append(merged, t)
		}
	}

	return &Incompatibility{
		Terms:  merged,
		Kind:   KindConflict,
		Cause1: cause1,
		Cause2: cause2,
	}
}

// IsFailure reports whether this incompatibility represents total,
// unresolvable contradiction: it holds vacuously with no terms left to
// explain away. Conflict resolution raises to the driver when it reaches
// this state.
func (inc *Incompatibility) IsFailure() bool {
	return inc == nil || len(inc.Terms) == 0
}

// String returns a string representation of the incompatibility
func (inc *Incompatibility) String() string {
	if len(inc.Terms) == 0 {
		return "version solving failed"
	}

	if len(inc.Terms) == 1 {
		return fmt.Sprintf("%s is forbidden", inc.Terms[0])
	}

	// For dependency incompatibilities, display "Pkg ver depends on dependency"
	if inc.Kind == KindFromDependency && len(inc.Terms) == 2 {
		var dep Term
		for _, term := range inc.Terms {
			if term.Name != inc.Package {
				dep = term
				break
			}
		}
		if dep.Name == EmptyName() {
			dep = inc.Terms[1]
		}
		if !dep.Positive {
			dep = dep.Negate()
		}
		return fmt.Sprintf("%s %s depends on %s", inc.Package.Value(), inc.Version, dep)
	}

	var parts []string
	for _, term := range inc.Terms {
		parts = append(parts, term.String())
	}
	return fmt.Sprintf("%s are incompatible", strings.Join(parts, " and "))
}
