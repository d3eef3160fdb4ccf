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

package yamlsource

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/fathomtree/pubgrub"
)

const diamondManifest = `
root: myapp
requires:
  a: ^1.0.0
  b: ^1.0.0
packages:
  a:
    "1.0.0":
      requires:
        shared: ">=2.0.0, <4.0.0"
  b:
    "1.0.0":
      requires:
        shared: ">=3.0.0, <5.0.0"
  shared:
    "2.0.0": {}
    "3.0.0": {}
    "3.6.9": {}
    "4.0.0": {}
    "5.0.0": {}
`

func TestParseRejectsMissingRoot(t *testing.T) {
	_, err := Parse([]byte("requires: {}\n"))
	require.Error(t, err)
}

func TestBuildAndSolveDiamond(t *testing.T) {
	m, err := Parse([]byte(diamondManifest))
	require.NoError(t, err)
	require.Equal(t, "myapp", m.Root)

	root, source, rootTerm, err := m.Build()
	require.NoError(t, err)

	solver := pubgrub.NewSolver(root, source)
	solution, err := solver.Solve(rootTerm)
	require.NoError(t, err)

	got := map[string]string{}
	for _, nv := range solution {
		if nv.Name.Value() == "$$root" {
			continue
		}
		got[nv.Name.Value()] = nv.Version.String()
	}

	want := map[string]string{
		"a":      "1.0.0",
		"b":      "1.0.0",
		"shared": "3.6.9",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestAllowMissingDependencyIsDropped(t *testing.T) {
	manifest := `
root: myapp
requires:
  a: ^1.0.0
packages:
  a:
    "1.0.0":
      requires:
        missing: "*"
allow_missing:
  - missing
`
	m, err := Parse([]byte(manifest))
	require.NoError(t, err)

	root, source, rootTerm, err := m.Build()
	require.NoError(t, err)

	solver := pubgrub.NewSolver(root, source)
	solution, err := solver.Solve(rootTerm)
	require.NoError(t, err)

	_, hasMissing := solution.GetVersion(pubgrub.MakeName("missing"))
	require.False(t, hasMissing)
}
