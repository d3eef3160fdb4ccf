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

import "testing"

func TestChooseNextPackageMinimumRemainingValues(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage(MakeName("wide"), SimpleVersion("1.0.0"), nil)
	source.AddPackage(MakeName("wide"), SimpleVersion("2.0.0"), nil)
	source.AddPackage(MakeName("wide"), SimpleVersion("3.0.0"), nil)
	source.AddPackage(MakeName("narrow"), SimpleVersion("1.0.0"), nil)

	root := NewRootSource()
	root.AddPackage(MakeName("wide"), NewVersionSetCondition(mustRange(t, "*")))
	root.AddPackage(MakeName("narrow"), NewVersionSetCondition(mustRange(t, "*")))

	state := newSolverState(CombinedSource{root, source}, defaultSolverOptions(), MakeName("$$root"))
	version := SimpleVersion("1")
	state.partial.seedRoot(MakeName("$$root"), version)

	deps, err := root.GetDependencies(MakeName("$$root"), version)
	if err != nil {
		t.Fatalf("GetDependencies: %v", err)
	}
	if _, err := state.registerDependencies(MakeName("$$root"), version, deps); err != nil {
		t.Fatalf("registerDependencies: %v", err)
	}

	next, ok, err := state.chooseNextPackage()
	if err != nil {
		t.Fatalf("chooseNextPackage: %v", err)
	}
	if !ok {
		t.Fatal("expected a pending package")
	}
	if next != MakeName("narrow") {
		t.Fatalf("expected MRV to pick the narrower package, got %s", next.Value())
	}
}

func TestPickVersionSkipsImmediateConflict(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage(MakeName("lib"), SimpleVersion("1.0.0"), nil)
	source.AddPackage(MakeName("lib"), SimpleVersion("2.0.0"), nil)

	root := NewRootSource()
	root.AddPackage(MakeName("lib"), NewVersionSetCondition(mustRange(t, "*")))

	combined := CombinedSource{root, source}
	state := newSolverState(combined, defaultSolverOptions(), MakeName("$$root"))

	// Learn an incompatibility that rules out lib@2.0.0 directly, simulating
	// a conflict discovered earlier in the search.
	forbid := NewIncompatibilityNoVersions(NewTerm(MakeName("lib"), EqualsCondition{Version: SimpleVersion("2.0.0")}))
	state.addIncompatibility(forbid)

	ver, found, attempts, err := state.pickVersion(MakeName("lib"))
	if err != nil {
		t.Fatalf("pickVersion: %v", err)
	}
	if !found {
		t.Fatal("expected a version to be found")
	}
	if ver.String() != "1.0.0" {
		t.Fatalf("expected to skip 2.0.0 and land on 1.0.0, got %s", ver)
	}
	if attempts < 2 {
		t.Fatalf("expected at least 2 attempts (skip + success), got %d", attempts)
	}
}

func mustRange(t *testing.T, s string) VersionSet {
	t.Helper()
	set, err := ParseVersionRange(s)
	if err != nil {
		t.Fatalf("ParseVersionRange(%q): %v", s, err)
	}
	return set
}
