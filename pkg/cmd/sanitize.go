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
	"fmt"
	"os"

	"github.com/consensys/go-termweave/pkg/sanitize"
	"github.com/spf13/cobra"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [flags] source_file(s)",
	Short: "check source files against the sanitizer's allow list.",
	Long: `Check that one or more Coq source files contain only those commands, imports,
	operators and literals permitted by the sanitizer.`,
	Run: func(cmd *cobra.Command, args []string) {
		var rejected = 0
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		getConfig(cmd, "")
		//
		for _, filename := range args {
			bytes, err := os.ReadFile(filename)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			if err := sanitize.Sanitize(string(bytes)); err != nil {
				reportError(filename, string(bytes), err)
				rejected++
			}
		}
		//
		if rejected > 0 {
			os.Exit(3)
		}
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}
