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
	"testing"

	"github.com/consensys/go-termweave/pkg/sanitize"
	"github.com/stretchr/testify/require"
)

func TestHighlight_01(t *testing.T) {
	rej := check_Rejection(t, "Definition x := 1.\n  Drop.\n")
	expected := "f.v:2:3: command Drop not permitted at 'D' (Command)\n  Drop.\n  ^\n"
	//
	require.Equal(t, expected, formatRejection("f.v", rej, false))
}

func TestHighlight_02(t *testing.T) {
	rej := check_Rejection(t, "Check a;b.")
	expected := "f.v:1:8: character not permitted at ';' (BodyTokenStart)\nCheck a\033[1;31m;\033[0mb.\n" +
		"       \033[1;33m^\033[0m\n"
	//
	require.Equal(t, expected, formatRejection("f.v", rej, true))
}

func TestHighlight_03(t *testing.T) {
	// End of input lies beyond the last character
	rej := check_Rejection(t, "Check x")
	expected := "f.v:1:8: unexpected end of input at end of input (InToken)\nCheck x\n       ^\n"
	//
	require.Equal(t, expected, formatRejection("f.v", rej, false))
	require.Contains(t, formatRejection("f.v", rej, true), "Check x\n")
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Rejection(t *testing.T, text string) *sanitize.Rejection {
	var rej *sanitize.Rejection
	//
	require.True(t, errors.As(sanitize.Sanitize(text), &rej))
	//
	return rej
}
