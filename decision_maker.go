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

// chooseNextPackage selects which pending package to decide on next using a
// minimum-remaining-values heuristic: the package with the fewest versions
// still matching its current allowed set is chosen first, since it is the
// most likely to fail fast and the cheapest to backtrack out of. Ties are
// broken by the order packages first appeared in the partial solution.
//
// Returns EmptyName, false if there are no pending packages left.
func (st *solverState) chooseNextPackage() (Name, bool, error) {
	candidates := st.partial.pendingPackages()
	if len(candidates) == 0 {
		return EmptyName(), false, nil
	}

	best := EmptyName()
	bestCount := -1

	for _, name := range candidates {
		allowed := st.partial.allowedSet(name)
		if allowed == nil || allowed.IsEmpty() {
			continue
		}

		versions, err := st.source.GetVersions(name)
		if err != nil {
			var pkgErr *PackageNotFoundError
			if errors.As(err, &pkgErr) {
				continue
			}
			return EmptyName(), false, err
		}

		count := 0
		for _, ver := range versions {
			if allowed.Contains(ver) {
				count++
			}
		}

		if bestCount == -1 || count < bestCount {
			best = name
			bestCount = count
		}
	}

	if best == EmptyName() {
		// Every candidate lacked a recognized version; fall back to the
		// first so the caller still reports a meaningful NoVersions failure.
		return candidates[0], true, nil
	}
	return best, true, nil
}

// pickVersion selects the best available version for a package from the
// source, trying candidates from highest to lowest and skipping any that
// would immediately conflict with an existing incompatibility. attempts
// counts every version considered, including ones skipped for an immediate
// conflict, so the caller can maintain an attempted_solutions tally.
//
// Returns the version if found, or (nil, false) if no suitable version
// exists.
func (st *solverState) pickVersion(name Name) (Version, bool, int, error) {
	allowed := st.partial.allowedSet(name)
	if allowed == nil || allowed.IsEmpty() {
		return nil, false, 0, nil
	}

	versions, err := st.source.GetVersions(name)
	if err != nil {
		var pkgErr *PackageNotFoundError
		var verErr *PackageVersionNotFoundError
		if errors.As(err, &pkgErr) || errors.As(err, &verErr) {
			return nil, false, 0, nil
		}
		return nil, false, 0, err
	}

	attempts := 0
	for i := len(versions) - 1; i >= 0; i-- {
		ver := versions[i]
		if !allowed.Contains(ver) {
			continue
		}
		attempts++
		if st.wouldConflictImmediately(name, ver) {
			st.debug("skipping version with immediate conflict",
				"package", name.Value(),
				"version", ver.String(),
			)
			continue
		}
		return ver, true, attempts, nil
	}

	return nil, false, attempts, nil
}

// wouldConflictImmediately reports whether deciding name@ver is already
// contradicted by an existing incompatibility given the rest of the current
// partial solution, letting the decision maker skip straight to the next
// candidate instead of deciding, propagating, and immediately backtracking.
func (st *solverState) wouldConflictImmediately(name Name, ver Version) bool {
	for _, inc := range st.incompatibilities[name] {
		satisfiedElsewhere := true
		for _, term := range inc.Terms {
			if term.Name == name {
				if !term.SatisfiedBy(ver) {
					satisfiedElsewhere = false
					break
				}
				continue
			}
			allowed := st.partial.allowedSet(term.Name)
			rel, err := relationForTerm(term, allowed, st.partial.hasAssignments(term.Name))
			if err != nil || rel != relationSatisfied {
				satisfiedElsewhere = false
				break
			}
		}
		if satisfiedElsewhere {
			return true
		}
	}
	return false
}
