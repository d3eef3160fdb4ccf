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

// TestPropagateDerivesInverseOfLoneOverlappingTerm exercises the core
// propagation rule: if every term of an incompatibility but one is already
// satisfied, the remaining term's negation can be derived.
func TestPropagateDerivesInverseOfLoneOverlappingTerm(t *testing.T) {
	state := newSolverState(&InMemorySource{}, defaultSolverOptions(), MakeName("$$root"))

	version := SimpleVersion("1")
	state.partial.seedRoot(MakeName("$$root"), version)

	// {root@1, bad >=2.0.0} is forbidden: with root already decided at 1,
	// bad's versions >=2.0.0 must be excluded while the rest stay allowed.
	inc := NewIncompatibilityConflict(
		[]Term{
			NewTerm(MakeName("$$root"), EqualsCondition{Version: version}),
			NewTerm(MakeName("bad"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))),
		},
		NewIncompatibilityRoot(MakeName("$$root"), version),
		NewIncompatibilityRoot(MakeName("$$root"), version),
	)
	state.addIncompatibility(inc)

	conflict, err := state.propagate(MakeName("$$root"))
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if conflict != nil {
		t.Fatalf("expected no conflict, got %v", conflict)
	}

	allowed := state.partial.allowedSet(MakeName("bad"))
	if allowed.Contains(mustSemver(t, "2.0.0")) || !allowed.Contains(mustSemver(t, "1.0.0")) {
		t.Fatalf("expected bad to be restricted to <2.0.0, got %s", allowed)
	}
}

func TestPropagateReportsConflictWhenAllTermsSatisfied(t *testing.T) {
	state := newSolverState(&InMemorySource{}, defaultSolverOptions(), MakeName("$$root"))
	version := SimpleVersion("1")
	state.partial.seedRoot(MakeName("$$root"), version)

	// A single positive-term incompatibility already satisfied by the
	// seeded root decision is an unconditional conflict.
	inc := &Incompatibility{
		Terms: []Term{NewTerm(MakeName("$$root"), EqualsCondition{Version: version})},
		Kind:  KindConflict,
	}
	state.addIncompatibility(inc)

	conflict, err := state.propagate(MakeName("$$root"))
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if conflict == nil {
		t.Fatal("expected a conflict")
	}
}
