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

import "errors"

// propagate drives unit propagation to a fixpoint starting from a single
// package, or from every currently queued package when start is EmptyName
// (the re-propagation case after a backtrack). It returns a conflict
// incompatibility if one is detected, or nil once the queue drains clean.
//
// Each dequeued package is checked against every incompatibility that
// mentions it; propagatePackage reports back either a conflict or the
// set of packages whose allowed versions narrowed as a result, which are
// re-enqueued so the fixpoint keeps expanding outward.
func (st *solverState) propagate(start Name) (*Incompatibility, error) {
	if start != EmptyName() {
		st.enqueue(start)
	}

	for {
		pkg, ok := st.dequeue()
		if !ok {
			st.debug("propagation reached fixpoint", "steps", st.propagationSteps)
			return nil, nil
		}

		conflict, narrowed, err := st.propagatePackage(pkg)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return conflict, nil
		}
		for _, name := range narrowed {
			st.enqueue(name)
		}
	}
}

// propagatePackage checks every incompatibility touching pkg against the
// current partial solution, applying any derivation it can make along the
// way. It returns the first conflict it finds, or the distinct set of
// packages that received a new derivation and so need re-propagating.
func (st *solverState) propagatePackage(pkg Name) (*Incompatibility, []Name, error) {
	var narrowed []Name
	seen := make(map[Name]bool)

	for _, inc := range st.incompatibilities[pkg] {
		st.propagationSteps++

		relation, unsatisfied, err := st.evaluateIncompatibility(inc)
		if err != nil {
			return nil, nil, err
		}

		switch relation {
		case relationSatisfied:
			st.debug("conflict detected during propagation",
				"package", pkg.Value(),
				"incompatibility", inc.String(),
			)
			return inc, nil, nil

		case relationAlmostSatisfied:
			if unsatisfied == nil {
				continue
			}
			name, conflict, err := st.derive(pkg, inc, *unsatisfied)
			if err != nil {
				return nil, nil, err
			}
			if conflict != nil {
				return conflict, nil, nil
			}
			if name != EmptyName() && !seen[name] {
				seen[name] = true
				narrowed = append(narrowed, name)
			}
		}
	}

	return nil, narrowed, nil
}

// derive applies the negation of an incompatibility's lone unsatisfied term
// as a new assignment. It reports the package that was assigned (so the
// caller can re-enqueue it), or a conflict if the derivation leaves the
// package with no allowed versions at all.
func (st *solverState) derive(pkg Name, inc *Incompatibility, unsatisfied Term) (Name, *Incompatibility, error) {
	derived := unsatisfied.Negate()
	st.debug("unit propagation",
		"package", pkg.Value(),
		"incompatibility", inc.String(),
		"derived_term", derived.String(),
	)

	assign, changed, err := st.partial.addDerivation(derived, inc)
	if errors.Is(err, errNoAllowedVersions) {
		return EmptyName(), inc, nil
	}
	if err != nil {
		return EmptyName(), nil, err
	}

	st.derivationsApplied++
	if assign != nil {
		st.traceAssignment("derivation", assign)
		st.markAssigned(assign.name)
	}
	if !changed || assign == nil {
		return EmptyName(), nil, nil
	}

	st.debug("enqueueing package after derivation",
		"package", assign.name.Value(),
		"term", assign.term.String(),
	)
	return assign.name, nil, nil
}

// incompatibilityRelation describes the relationship between an incompatibility
// and the current partial solution.
type incompatibilityRelation int

const (
	relationSatisfied       incompatibilityRelation = iota // All terms satisfied (conflict!)
	relationAlmostSatisfied                                // All but one term satisfied (unit propagation)
	relationContradicted                                   // At least one term contradicted (incompatibility inapplicable)
	relationInconclusive                                   // Multiple terms unsatisfied (wait for more decisions)
)

// evaluateIncompatibility determines the relationship between an incompatibility
// and the current partial solution.
func (st *solverState) evaluateIncompatibility(inc *Incompatibility) (incompatibilityRelation, *Term, error) {
	var unsatisfied *Term

	for _, term := range inc.Terms {
		allowed := st.partial.allowedSet(term.Name)
		rel, err := relationForTerm(term, allowed, st.partial.hasAssignments(term.Name))
		if err != nil {
			return relationInconclusive, nil, err
		}

		switch rel {
		case relationContradicted:
			return relationContradicted, nil, nil
		case relationSatisfied:
			continue
		case relationInconclusive:
			if unsatisfied != nil {
				return relationInconclusive, nil, nil
			}
			temp := term
			unsatisfied = &temp
		}
	}

	if unsatisfied == nil {
		return relationSatisfied, nil, nil
	}
	return relationAlmostSatisfied, unsatisfied, nil
}

// relationForTerm determines the relationship between a single term and the
// current allowed version set for its package.
func relationForTerm(term Term, allowed VersionSet, hasAssignment bool) (incompatibilityRelation, error) {
	if allowed == nil {
		allowed = FullVersionSet()
	}

	if term.Positive {
		required, ok := termAllowedSet(term)
		if !ok {
			return relationInconclusive, nil
		}
		if allowed.IsSubset(required) {
			if hasAssignment {
				return relationSatisfied, nil
			}
			return relationInconclusive, nil
		}
		if allowed.IsDisjoint(required) {
			return relationContradicted, nil
		}
		return relationInconclusive, nil
	}

	forbidden, ok := termForbiddenSet(term)
	if !ok {
		return relationInconclusive, nil
	}

	if allowed.IsDisjoint(forbidden) {
		return relationSatisfied, nil
	}
	if allowed.IsSubset(forbidden) {
		if hasAssignment {
			return relationContradicted, nil
		}
		return relationInconclusive, nil
	}
	return relationInconclusive, nil
}
