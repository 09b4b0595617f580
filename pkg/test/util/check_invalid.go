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
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/consensys/go-termweave/pkg/sanitize"
	"github.com/consensys/go-termweave/pkg/token"
)

// CheckInvalid checks that a given graph fixture fails to compile with the
// format error described at its start.
// nolint
func CheckInvalid(t *testing.T, test string) {
	var (
		filename = fmt.Sprintf("%s/graphs/invalid/%s.yaml", TestDir, test)
		ferr     *token.FormatError
	)
	// Enable testing each fixture in parallel
	t.Parallel()
	//
	fixture, lines := readFixture(t, filename)
	// Extract expected error for comparison
	expected, errs := ExtractAttributes(lines, extractFormatError)
	//
	if len(errs) > 0 {
		// Report any errors encountered parsing the attributes themselves.
		t.Fatal(errors.Join(errs...))
	} else if len(expected) != 1 {
		t.Fatalf("%s should describe exactly one expected error", filename)
	}
	//
	_, err := compiler.Compile(context.Background(), fixture.Graph, fixture.Start, compiler.DefaultConfig(fixture.Name))
	// Check fixture did not compile!
	if err == nil {
		t.Fatalf("%s should not have compiled", filename)
	} else if !errors.As(err, &ferr) {
		t.Fatalf("%s: unexpected error %s", filename, err)
	} else if ferr.Code != expected[0].Code {
		t.Fatalf("%s: expected error %s, got %s", filename, expected[0].Code, ferr)
	} else if len(expected[0].Positions) > 0 && !slices.Equal(ferr.Positions, expected[0].Positions) {
		t.Fatalf("%s: expected error at %v, got %s", filename, expected[0].Positions, ferr)
	}
}

// CheckSanitize checks that a given file is either accepted by the sanitizer
// or, when it describes an expected rejection at its start, rejected at exactly
// that point.
func CheckSanitize(t *testing.T, test string) {
	var (
		filename = fmt.Sprintf("%s/sanitize/%s.v", TestDir, test)
		lines    = splitLines(readFile(t, filename))
		rej      *sanitize.Rejection
	)
	// Enable testing each file in parallel
	t.Parallel()
	//
	expected, errs := ExtractAttributes(lines, extractRejection)
	//
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	err := sanitize.Sanitize(stripAttributes(lines, len(expected)))
	//
	switch {
	case len(expected) == 0 && err != nil:
		t.Fatalf("%s: unexpected rejection %s", filename, err)
	case len(expected) == 0:
		return
	case len(expected) > 1:
		t.Fatalf("%s should describe at most one rejection", filename)
	case err == nil:
		t.Fatalf("%s should have been rejected", filename)
	case !errors.As(err, &rej):
		t.Fatalf("%s: unexpected error %s", filename, err)
	case rej.Line != expected[0].Line || rej.Column != expected[0].Column || rej.State.String() != expected[0].State:
		t.Fatalf("%s: expected rejection at %d:%d (%s), got %s", filename, expected[0].Line, expected[0].Column,
			expected[0].State, err)
	}
}
