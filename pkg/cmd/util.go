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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/sanitize"
	"github.com/consensys/go-termweave/pkg/token"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected signed integer, or panic if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt64 gets an expected 64bit signed integer, or panic if an error arises.
func GetInt64(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure logging and construct a compiler configuration from the persistent
// flags.
func getConfig(cmd *cobra.Command, name string) compiler.Config {
	// Configure log level
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	cfg := compiler.DefaultConfig(name)
	cfg.Shuffle = GetFlag(cmd, "shuffle")
	cfg.Seed = GetInt64(cmd, "seed")
	cfg.Sanitize = !GetFlag(cmd, "no-sanitize")
	cfg.CheckInvariants = GetFlag(cmd, "check-invariants")
	//
	return cfg
}

// Construct the template cache selected on the command line, or exit.
func getTemplates(cmd *cobra.Command) *graph.TemplateCache {
	filename := GetString(cmd, "templates")
	//
	if filename == "" {
		return graph.NewTemplateCache()
	}
	//
	templates, err := graph.LoadTemplates(afero.NewOsFs(), filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return templates
}

// Read a fixture file from disk, or exit.
func readFixture(filename string, templates *graph.TemplateCache) *graph.Fixture {
	fixture, err := graph.Load(afero.NewOsFs(), filename, templates)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return fixture
}

// Write out any metrics requested on the command line.
func writeMetrics(cmd *cobra.Command) {
	if filename := GetString(cmd, "metrics"); filename != "" {
		if err := compiler.WriteMetrics(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
}

// Report an error arising from compiling a given text (which may be empty if
// compilation did not get that far).
func reportError(filename string, text string, err error) {
	var (
		ferr *token.FormatError
		rej  *sanitize.Rejection
		unv  *compiler.Unverified
	)
	//
	switch {
	case errors.As(err, &rej):
		printRejection(filename, rej)
	case errors.As(err, &ferr):
		fmt.Printf("%s: malformed graph (%s): %s\n", filename, ferr.Code, ferr.Msg)
		//
		for _, pos := range ferr.Positions {
			fmt.Printf("\tat %s\n", pos)
		}
	case errors.As(err, &unv):
		fmt.Printf("%s: %s\n", filename, unv.Result.String())
		fmt.Print(text)
	default:
		fmt.Printf("%s: %s\n", filename, err)
	}
}
