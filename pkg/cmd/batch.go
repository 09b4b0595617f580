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
	"path"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/consensys/go-termweave/pkg/graph"
	multierr "github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] fixture_file(s)",
	Short: "synthesise definitions from several graph fixtures concurrently.",
	Long: `Synthesise one definition per graph fixture, running several compilations
	concurrently.  Generated text is written into an output directory, one file per
	definition.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			fixtures  []*graph.Fixture
			templates = getTemplates(cmd)
			outdir    = GetString(cmd, "outdir")
		)
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		for _, filename := range args {
			fixtures = append(fixtures, readFixture(filename, templates))
		}
		//
		outputs, err := compiler.Batch(context.Background(), fixtures, getConfig(cmd, ""), GetInt(cmd, "jobs"))
		writeMetrics(cmd)
		//
		for _, out := range outputs {
			if out != nil && out.Outcome == compiler.OutcomeOk && outdir != "" {
				writeText(path.Join(outdir, out.Name+".v"), out.Text)
			}
		}
		//
		if merr, ok := err.(*multierr.Error); ok {
			for _, e := range merr.Errors {
				fmt.Println(e)
			}
			//
			fmt.Printf("%d of %d fixtures failed\n", len(merr.Errors), len(fixtures))
			os.Exit(3)
		} else if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		fmt.Printf("compiled %d fixtures\n", len(fixtures))
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("jobs", "j", 4, "number of concurrent compilations (0 for unlimited).")
	batchCmd.Flags().StringP("outdir", "d", "", "directory to write generated definitions into.")
}
