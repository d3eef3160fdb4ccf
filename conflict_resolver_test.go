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

// TestResolveIncompatibilityDropsPivotTerm confirms the prior-cause resolvent
// drops the pivot package's own term from both parents and keeps everything
// else, folded through the same term-merge rules Incompatibility
// construction uses.
func TestResolveIncompatibilityDropsPivotTerm(t *testing.T) {
	pivot := MakeName("pivot")
	other := MakeName("other")

	conflict := NewIncompatibilityConflict([]Term{
		NewTerm(pivot, NewVersionSetCondition(mustRange(t, "*"))),
		NewTerm(other, NewVersionSetCondition(mustRange(t, ">=1.0.0"))),
	}, nil, nil)

	cause := NewIncompatibilityConflict([]Term{
		NewNegativeTerm(pivot, NewVersionSetCondition(mustRange(t, "*"))),
		NewTerm(other, NewVersionSetCondition(mustRange(t, "<2.0.0"))),
	}, nil, nil)

	resolved := resolveIncompatibility(conflict, cause, pivot)

	for _, term := range resolved.Terms {
		if term.Name == pivot {
			t.Fatalf("expected pivot package to be eliminated, found %s", term)
		}
	}
	if len(resolved.Terms) != 1 {
		t.Fatalf("expected one merged term for %q, got %d: %v", other.Value(), len(resolved.Terms), resolved.Terms)
	}
}

// TestResolveConflictBacktracksOnDecisionSatisfier exercises the spec-literal
// backtrack-readiness condition: a Decision satisfier always triggers a
// backtrack, regardless of how previousSatisfierLevel compares to its own
// level.
func TestResolveConflictBacktracksOnDecisionSatisfier(t *testing.T) {
	state := newSolverState(&InMemorySource{}, defaultSolverOptions(), MakeName("$$root"))
	version := SimpleVersion("1")
	state.partial.seedRoot(MakeName("$$root"), version)
	state.partial.addDecision(MakeName("pkg"), SimpleVersion("1.0.0"))

	conflict := NewIncompatibilityConflict([]Term{
		NewTerm(MakeName("$$root"), EqualsCondition{Version: version}),
		NewTerm(MakeName("pkg"), EqualsCondition{Version: SimpleVersion("1.0.0")}),
	}, nil, nil)

	learned, pivot, err := state.resolveConflict(conflict)
	if err != nil {
		t.Fatalf("resolveConflict: %v", err)
	}
	if learned != nil {
		t.Fatalf("expected no further learned incompatibility from a single backtrack step, got %v", learned)
	}
	if pivot != MakeName("pkg") {
		t.Fatalf("expected backtrack to target the decided package, got %s", pivot.Value())
	}
	if state.partial.hasDecision(MakeName("pkg")) {
		t.Fatal("expected the decision to be undone by backtracking")
	}
}
