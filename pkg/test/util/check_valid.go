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
	"context"
	"fmt"
	"testing"

	"github.com/consensys/go-termweave/pkg/compiler"
)

// CheckValid checks that a given graph fixture compiles to exactly its
// expected definition under every configuration, including shuffled orderings.
func CheckValid(t *testing.T, test string) {
	var (
		filename = fmt.Sprintf("%s/graphs/valid/%s.yaml", TestDir, test)
		expected = readFile(t, fmt.Sprintf("%s/graphs/valid/%s.v", TestDir, test))
	)
	// Enable testing each fixture in parallel
	t.Parallel()
	//
	fixture, _ := readFixture(t, filename)
	//
	for _, cfg := range configurations(fixture.Name) {
		out, err := compiler.Compile(context.Background(), fixture.Graph, fixture.Start, cfg)
		//
		if err != nil {
			t.Fatalf("%s (seed %d, shuffle %t): %s", filename, cfg.Seed, cfg.Shuffle, err)
		} else if out.Text != expected {
			t.Fatalf("%s (seed %d, shuffle %t): expected\n%s\ngot\n%s", filename, cfg.Seed, cfg.Shuffle, expected,
				out.Text)
		}
	}
}
