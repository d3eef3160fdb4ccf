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

// NumberedReporter renders a failure incompatibility as numbered English
// prose, cross-referencing previously explained derivations by line number
// instead of re-stating their subtrees. This mirrors the explanation style
// used by reference PubGrub implementations: leaves are phrased directly
// ("X depends on Y", "no versions of Y match C"), and every derived step
// reads "Because <left> and <right>, <conclusion>", substituting "(N)" for
// any referenced line that was already numbered.
//
// Rendering is deterministic for a given incompatibility DAG: line numbers
// are assigned in order of first appearance during the walk.
type NumberedReporter struct{}

// Report implements Reporter.
func (r *NumberedReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}

	w := &numberedWriter{
		numbers: make(map[*Incompatibility]int),
	}
	phrase := w.render(incomp)

	if len(w.lines) == 0 {
		return phrase
	}
	return strings.Join(w.lines, "\n")
}

type numberedWriter struct {
	lines   []string
	numbers map[*Incompatibility]int
}

// render recursively explains incomp, returning a phrase referring to its
// conclusion (either the full clause text, or "(N)" if it was already
// written out as a numbered line).
func (w *numberedWriter) render(incomp *Incompatibility) string {
	if n, ok := w.numbers[incomp]; ok {
		return fmt.Sprintf("(%d)", n)
	}

	switch incomp.Kind {
	case KindRoot:
		return fmt.Sprintf("installation requires %s", rootPhrase(incomp))

	case KindNoVersions:
		if len(incomp.Terms) > 0 {
			return fmt.Sprintf("no versions of %s match %s", incomp.Terms[0].Name.Value(), conditionPhrase(incomp.Terms[0]))
		}
		return "no versions satisfy the constraint"

	case KindPackageNotFound:
		return fmt.Sprintf("%s is not a recognized package", incomp.Package.Value())

	case KindFromDependency:
		dep := dependencyTerm(incomp)
		return fmt.Sprintf("%s (%s) depends on %s", incomp.Package.Value(), incomp.Version, dep)

	case KindConflict:
		return w.renderDerived(incomp)
	}

	return incomp.String()
}

// renderDerived explains a Derived incompatibility, appending one numbered
// line to the transcript and returning a reference to it. The two parent
// causes are explained first (possibly emitting their own numbered lines),
// then combined into "Because <left> and <right>, <conclusion>".
func (w *numberedWriter) renderDerived(incomp *Incompatibility) string {
	left := "no solution exists"
	if incomp.Cause1 != nil {
		left = w.render(incomp.Cause1)
	}
	right := ""
	if incomp.Cause2 != nil {
		right = w.render(incomp.Cause2)
	}

	conclusion := conclusionPhrase(incomp)

	var line string
	if right == "" {
		line = fmt.Sprintf("Because %s, %s", left, conclusion)
	} else {
		line = fmt.Sprintf("Because %s and %s, %s", left, right, conclusion)
	}

	n := len(w.numbers) + 1
	w.numbers[incomp] = n
	w.lines = append(w.lines, fmt.Sprintf("%d. %s", n, line))

	return fmt.Sprintf("(%d)", n)
}

func conclusionPhrase(incomp *Incompatibility) string {
	switch len(incomp.Terms) {
	case 0:
		return "version solving failed"
	case 1:
		return fmt.Sprintf("%s is forbidden", incomp.Terms[0])
	default:
		var parts []string
		for _, t := range incomp.Terms {
			parts = append(parts, t.String())
		}
		return fmt.Sprintf("these constraints conflict: %s", strings.Join(parts, " and "))
	}
}

func dependencyTerm(incomp *Incompatibility) Term {
	for _, term := range incomp.Terms {
		if term.Name != incomp.Package {
			return term.AsPositive()
		}
	}
	return Term{}
}

func conditionPhrase(t Term) string {
	if t.Condition == nil {
		return "*"
	}
	return t.Condition.String()
}

func rootPhrase(incomp *Incompatibility) string {
	if len(incomp.Terms) == 0 {
		return "a version that does not exist"
	}
	return incomp.Terms[0].String()
}

var _ Reporter = (*NumberedReporter)(nil)
