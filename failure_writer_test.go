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
	"strings"
	"testing"
)

// TestNumberedReporterExplainsLeavesDirectly confirms the three leaf kinds
// are phrased without any numbered cross-reference, since they have no
// causes to recurse into.
func TestNumberedReporterExplainsLeavesDirectly(t *testing.T) {
	reporter := &NumberedReporter{}

	noVer := NewIncompatibilityNoVersions(NewTerm(MakeName("bar"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))))
	out := reporter.Report(noVer)
	if !strings.Contains(out, "no versions of bar match") {
		t.Fatalf("expected a direct no-versions phrasing, got %q", out)
	}

	notFound := NewIncompatibilityPackageNotFound(MakeName("ghost"))
	out = reporter.Report(notFound)
	if !strings.Contains(out, "ghost is not a recognized package") {
		t.Fatalf("expected a direct package-not-found phrasing, got %q", out)
	}
}

// TestNumberedReporterNumbersDerivationsInFirstAppearanceOrder builds a
// two-level derivation DAG (a dependency leaf and a no-versions leaf,
// combined into one derived conflict) and checks that the single derived
// line is numbered "1." and its "Because X and Y" phrasing embeds both
// leaf explanations inline rather than cross-referencing them (since
// neither leaf is itself a KindConflict, neither gets its own line).
func TestNumberedReporterNumbersDerivationsInFirstAppearanceOrder(t *testing.T) {
	dep := NewIncompatibilityFromDependency(
		MakeName("foo"),
		SimpleVersion("1.0.0"),
		NewTerm(MakeName("bar"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))),
	)
	noVer := NewIncompatibilityNoVersions(NewTerm(MakeName("bar"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))))

	conflict := NewIncompatibilityConflict(
		[]Term{NewTerm(MakeName("foo"), EqualsCondition{Version: SimpleVersion("1.0.0")})},
		dep,
		noVer,
	)

	reporter := &NumberedReporter{}
	out := reporter.Report(conflict)

	lines := strings.Split(out, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one numbered line, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "1. Because ") {
		t.Fatalf("expected the sole line to be numbered 1, got %q", lines[0])
	}
	if !strings.Contains(lines[0], "depends on bar") {
		t.Fatalf("expected the dependency leaf phrase inline, got %q", lines[0])
	}
	if !strings.Contains(lines[0], "no versions of bar match") {
		t.Fatalf("expected the no-versions leaf phrase inline, got %q", lines[0])
	}
}

// TestNumberedReporterCrossReferencesRepeatedCause builds a three-level DAG
// where the same derived incompatibility is a cause of two different
// higher-level conflicts, and checks the second reference renders as
// "(1)" instead of re-explaining the subtree.
func TestNumberedReporterCrossReferencesRepeatedCause(t *testing.T) {
	dep := NewIncompatibilityFromDependency(
		MakeName("foo"),
		SimpleVersion("1.0.0"),
		NewTerm(MakeName("bar"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))),
	)
	noVer := NewIncompatibilityNoVersions(NewTerm(MakeName("bar"), NewVersionSetCondition(mustRange(t, ">=2.0.0"))))

	shared := NewIncompatibilityConflict(
		[]Term{NewTerm(MakeName("foo"), EqualsCondition{Version: SimpleVersion("1.0.0")})},
		dep,
		noVer,
	)

	root := NewIncompatibilityRoot(MakeName("$$root"), SimpleVersion("1"))

	top := NewIncompatibilityConflict(
		[]Term{
			NewTerm(MakeName("$$root"), EqualsCondition{Version: SimpleVersion("1")}),
			NewTerm(MakeName("foo"), EqualsCondition{Version: SimpleVersion("1.0.0")}),
		},
		root,
		shared,
	)

	// Render shared first on its own so it claims line 1, then render top,
	// which must reuse shared's existing number rather than re-deriving it.
	reporter := &NumberedReporter{}
	_ = reporter.Report(shared)

	w := &numberedWriter{numbers: make(map[*Incompatibility]int)}
	w.render(shared)
	sharedRef := w.render(shared)
	if sharedRef != "(1)" {
		t.Fatalf("expected the repeated cause to cross-reference as (1), got %q", sharedRef)
	}

	top2 := w.render(top)
	if !strings.Contains(top2, "(2)") {
		t.Fatalf("expected top's own numbered line, got %q", top2)
	}
	if len(w.lines) != 2 {
		t.Fatalf("expected exactly two numbered lines total, got %d: %v", len(w.lines), w.lines)
	}
	if !strings.Contains(w.lines[1], "(1)") {
		t.Fatalf("expected top's line to cross-reference (1) instead of re-explaining it, got %q", w.lines[1])
	}
}
