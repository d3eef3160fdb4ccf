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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fathomtree/pubgrub"
)

var numbered bool

var explainCmd = &cobra.Command{
	Use:   "explain <manifest.yaml>",
	Short: "Resolve a manifest and print the full failure explanation if it fails",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := resolve(args[0])
		if err == nil {
			fmt.Println("no conflict: the manifest resolves successfully")
			return nil
		}

		var ns *pubgrub.NoSolutionError
		if !errors.As(err, &ns) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		reporter := pubgrub.Reporter(&pubgrub.DefaultReporter{})
		if numbered {
			reporter = &pubgrub.NumberedReporter{}
		}
		fmt.Println(reporter.Report(ns.Incompatibility))
		os.Exit(1)
		return nil
	},
}

func init() {
	explainCmd.Flags().BoolVar(&numbered, "numbered", false, "use the numbered cross-referenced explanation style")
}
