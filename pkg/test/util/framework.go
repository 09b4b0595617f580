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
package util

import (
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/spf13/afero"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the graph fixtures (yaml) with their expected definitions (v), and the
// sanitizer inputs, are found.
const TestDir = "../../testdata"

// MAX_SEEDS determines how many shuffled orderings each valid fixture is
// compiled under, in addition to the default ordering.
const MAX_SEEDS int64 = 8

// Read a graph fixture along with its raw contents.
func readFixture(t *testing.T, filename string) (*graph.Fixture, []string) {
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	fixture, err := graph.ParseFixture(bytes, graph.NewTemplateCache())
	if err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
	//
	return fixture, splitLines(string(bytes))
}

// Read a file through the same filesystem layer the compiler uses.
func readFile(t *testing.T, filename string) string {
	bytes, err := afero.ReadFile(afero.NewOsFs(), filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	return string(bytes)
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Construct the configurations every valid fixture is compiled under.
func configurations(name string) []compiler.Config {
	var configs []compiler.Config
	//
	cfg := compiler.DefaultConfig(name)
	cfg.CheckInvariants = true
	configs = append(configs, cfg)
	//
	for seed := int64(0); seed < MAX_SEEDS; seed++ {
		cfg.Shuffle = true
		cfg.Seed = seed
		configs = append(configs, cfg)
	}
	//
	return configs
}
