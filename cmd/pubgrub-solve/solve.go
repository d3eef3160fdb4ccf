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

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fathomtree/pubgrub"
	"github.com/fathomtree/pubgrub/yamlsource"
)

var outputYAML bool

var solveCmd = &cobra.Command{
	Use:   "solve <manifest.yaml>",
	Short: "Resolve a manifest to a concrete version for every package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := resolve(args[0])
		if err != nil {
			reportFailure(args[0], err)
			os.Exit(1)
		}

		if outputYAML {
			return printYAML(result.Decisions)
		}
		printSolution(result)
		return nil
	},
}

func init() {
	solveCmd.Flags().BoolVar(&outputYAML, "o-yaml", false, "print the solution as YAML instead of text")
}

func resolve(manifestPath string) (pubgrub.Result, error) {
	manifest, err := yamlsource.Load(manifestPath)
	if err != nil {
		return pubgrub.Result{}, err
	}

	root, source, rootTerm, err := manifest.Build()
	if err != nil {
		return pubgrub.Result{}, err
	}

	// The manifest's package registry is static for the lifetime of a single
	// solve, so repeated GetVersions/GetDependencies calls from the MRV
	// heuristic and conflict resolution are safe to cache.
	cached := pubgrub.NewCachedSource(source)

	solver := pubgrub.NewSolverWithOptions(
		[]pubgrub.Source{root, cached},
		pubgrub.WithIncompatibilityTracking(true),
		pubgrub.WithLogger(slog.Default()),
	)

	return solver.SolveWithStats(rootTerm)
}

func reportFailure(manifestPath string, err error) {
	fmt.Fprintf(os.Stderr, "pubgrub-solve: could not resolve %s: %v\n", manifestPath, err)
}

func printSolution(result pubgrub.Result) {
	fmt.Printf("resolved %d package(s), %d version(s) attempted\n", len(result.Decisions), result.AttemptedSolutions)
	for _, nv := range result.Decisions {
		if nv.Name.Value() == "$$root" {
			continue
		}
		fmt.Printf("  %s %s\n", nv.Name.Value(), nv.Version)
	}
}

func printYAML(solution pubgrub.Solution) error {
	out := make(map[string]string, len(solution))
	for _, nv := range solution {
		if nv.Name.Value() == "$$root" {
			continue
		}
		out[nv.Name.Value()] = nv.Version.String()
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(out)
}
