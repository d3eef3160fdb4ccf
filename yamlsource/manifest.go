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

// Package yamlsource loads a declarative package universe — the root
// package's own requirements plus a fixture registry of every other
// package's available versions and their dependencies — from a YAML
// manifest, and builds a pubgrub.Source (and root term) from it.
package yamlsource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fathomtree/pubgrub"
	"github.com/fathomtree/pubgrub/semverset"
)

// Manifest is the parsed shape of a package-universe YAML document.
//
// Example:
//
//	root: myapp
//	requires:
//	  a: ^1.0.0
//	  b: ^1.0.0
//	packages:
//	  a:
//	    "1.0.0": {}
//	    "1.1.0":
//	      requires:
//	        shared: ">=2.0.0 <4.0.0"
//	  b:
//	    "1.0.0":
//	      requires:
//	        shared: ">=3.0.0 <5.0.0"
//	  shared:
//	    "2.0.0": {}
//	    "3.0.0": {}
//	    "3.6.9": {}
//	    "4.0.0": {}
//	    "5.0.0": {}
//	allow_missing:
//	  - optional-telemetry
type Manifest struct {
	// Root names the project being solved for, for display purposes only:
	// the solver itself always resolves against RootSource's fixed "$$root"
	// sentinel package, per the engine's own root-package design.
	Root         string                      `yaml:"root"`
	Requires     map[string]string           `yaml:"requires"`
	Packages     map[string]map[string]entry `yaml:"packages"`
	AllowMissing []string                    `yaml:"allow_missing"`
}

type entry struct {
	Requires map[string]string `yaml:"requires"`
}

// Load reads and parses a manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlsource: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses manifest YAML already read into memory.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("yamlsource: parse manifest: %w", err)
	}
	if m.Root == "" {
		return nil, fmt.Errorf("yamlsource: manifest missing required \"root\" field")
	}
	return &m, nil
}

// allowMissingSource is a pubgrub.Source that also opts a fixed set of
// package names out of PackageNotFound failure, satisfying
// pubgrub.AllowMissingSource.
type allowMissingSource struct {
	*pubgrub.InMemorySource
	allowed map[string]bool
}

func (s *allowMissingSource) AllowMissing(name pubgrub.Name) bool {
	return s.allowed[name.Value()]
}

var (
	_ pubgrub.Source             = (*allowMissingSource)(nil)
	_ pubgrub.AllowMissingSource = (*allowMissingSource)(nil)
)

// Build converts the manifest into a root source, a combined package
// source, and the root term to pass to Solver.Solve/SolveWithStats.
func (m *Manifest) Build() (*pubgrub.RootSource, pubgrub.Source, pubgrub.Term, error) {
	root := pubgrub.NewRootSource()
	for name, constraint := range m.Requires {
		cond, err := semverset.NewCondition(constraint)
		if err != nil {
			return nil, nil, pubgrub.Term{}, fmt.Errorf("yamlsource: root requirement %s: %w", name, err)
		}
		root.AddPackage(pubgrub.MakeName(name), cond)
	}

	mem := &pubgrub.InMemorySource{}
	for name, versions := range m.Packages {
		pkgName := pubgrub.MakeName(name)
		for versionStr, e := range versions {
			ver, err := semverset.NewVersion(versionStr)
			if err != nil {
				return nil, nil, pubgrub.Term{}, fmt.Errorf("yamlsource: package %s version %s: %w", name, versionStr, err)
			}

			var deps []pubgrub.Term
			for depName, depConstraint := range e.Requires {
				cond, err := semverset.NewCondition(depConstraint)
				if err != nil {
					return nil, nil, pubgrub.Term{}, fmt.Errorf("yamlsource: %s@%s dependency %s: %w", name, versionStr, depName, err)
				}
				deps = append(deps, pubgrub.NewTerm(pubgrub.MakeName(depName), cond))
			}
			mem.AddPackage(pkgName, ver, deps)
		}
	}

	allowed := make(map[string]bool, len(m.AllowMissing))
	for _, name := range m.AllowMissing {
		allowed[name] = true
	}
	source := &allowMissingSource{InMemorySource: mem, allowed: allowed}

	return root, source, root.Term(), nil
}
