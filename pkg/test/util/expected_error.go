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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-termweave/pkg/graph"
)

// ExpectedError describes the format error a fixture should produce, written
// at the start of the fixture as e.g. "# error: cycle (1,0,0) (2,0,0)".  When no
// positions are given, only the code is checked.
type ExpectedError struct {
	Code      string
	Positions []graph.Position
}

// ExpectedRejection describes where the sanitizer should reject a file,
// written at the start of the file as e.g. ";;reject:2:5:BodyTokenStart".
type ExpectedRejection struct {
	Line   int
	Column int
	State  string
}

// Extract the expected format error from a given line of a fixture.
func extractFormatError(lineno int, lines []string) (bool, ExpectedError, error) {
	var (
		contents = strings.TrimSpace(lines[lineno])
		expected ExpectedError
	)
	//
	if !strings.HasPrefix(contents, "# error:") {
		return false, expected, nil
	}
	//
	fields := strings.Fields(strings.TrimPrefix(contents, "# error:"))
	//
	if len(fields) == 0 {
		return true, expected, fmt.Errorf("malformed expected error \"%s\", should be e.g. \"# error: cycle\"", contents)
	}
	//
	expected.Code = fields[0]
	//
	for _, field := range fields[1:] {
		var pos graph.Position
		//
		if _, err := fmt.Sscanf(field, "(%d,%d,%d)", &pos.X, &pos.Y, &pos.Z); err != nil {
			return true, expected, fmt.Errorf("invalid position \"%s\" (%s)", field, err.Error())
		}
		//
		expected.Positions = append(expected.Positions, pos)
	}
	//
	return true, expected, nil
}

// Extract the expected rejection from a given line of a sanitizer input.
func extractRejection(lineno int, lines []string) (bool, ExpectedRejection, error) {
	var (
		contents = lines[lineno]
		expected ExpectedRejection
		err      error
	)
	//
	if !strings.HasPrefix(contents, ";;reject") {
		return false, expected, nil
	}
	//
	splits := strings.Split(contents, ":")
	//
	if len(splits) != 4 {
		return true, expected, fmt.Errorf("malformed expected rejection \"%s\", should be e.g. \";;reject:X:Y:state\"",
			contents)
	} else if expected.Line, err = strconv.Atoi(splits[1]); err != nil {
		return true, expected, fmt.Errorf("invalid line \"%s\" (%s)", splits[1], err.Error())
	} else if expected.Column, err = strconv.Atoi(splits[2]); err != nil {
		return true, expected, fmt.Errorf("invalid column \"%s\" (%s)", splits[2], err.Error())
	} else if expected.Line == 0 || expected.Column == 0 {
		return true, expected, fmt.Errorf("invalid rejection \"%s\" (lines and columns numbered from 1)", contents)
	}
	//
	expected.State = splits[3]
	//
	return true, expected, nil
}

// Blank out attribute lines, such that line numbers are preserved but the
// attributes themselves are not seen by the sanitizer.
func stripAttributes(lines []string, n int) string {
	var stripped = make([]string, len(lines))
	//
	for i, line := range lines {
		if i >= n {
			stripped[i] = line
		}
	}
	//
	return strings.Join(stripped, "\n")
}
