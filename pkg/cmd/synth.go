// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth [flags] fixture_file",
	Short: "synthesise a definition from a graph fixture.",
	Long: `Synthesise a single definition from a graph fixture, printing the generated
	text (once sanitized) to stdout or a given output file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		fixture := readFixture(args[0], getTemplates(cmd))
		name := GetString(cmd, "name")
		//
		if name == "" {
			name = fixture.Name
		}
		//
		cfg := getConfig(cmd, name)
		out, err := compiler.Compile(context.Background(), fixture.Graph, fixture.Start, cfg)
		// Debugging taps
		writeTaps(cmd, out)
		writeMetrics(cmd)
		//
		if err != nil {
			reportError(args[0], out.Text, err)
			os.Exit(3)
		}
		//
		writeText(GetString(cmd, "output"), out.Text)
		out.Logger().Debugf("synthesised %s", args[0])
	},
}

// Dump the token graph, if requested.
func writeTaps(cmd *cobra.Command, out *compiler.Output) {
	if out.Synthesis == nil {
		return
	}
	//
	arena := out.Synthesis.Arena
	//
	if GetFlag(cmd, "dump") {
		fmt.Println(litter.Sdump(arena.Tokens()))
	}
	//
	if filename := GetString(cmd, "dot"); filename != "" {
		if err := os.WriteFile(filename, []byte(arena.Dot()), 0644); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Debugf("wrote token graph to %s", filename)
	}
}

// Write generated text to a given file, or stdout if no file given.
func writeText(filename string, text string) {
	if filename == "" {
		fmt.Print(text)
	} else if err := os.WriteFile(filename, []byte(text), 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().StringP("output", "o", "", "specify output file.")
	synthCmd.Flags().StringP("name", "n", "", "name of generated definition (defaults to the fixture's).")
	synthCmd.Flags().Bool("dump", false, "dump the token graph.")
	synthCmd.Flags().String("dot", "", "write the token graph in graphviz format to a given file.")
}
