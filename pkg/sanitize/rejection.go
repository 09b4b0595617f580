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
package sanitize

import (
	"fmt"
	"strings"
)

// Rejection reports the first part of a text which the sanitizer does not
// permit.
type Rejection struct {
	// Original text
	text []rune
	// Offset (in runes) of the offending character.  This equals the length
	// of the text when the end of input was unexpected.
	Offset int
	// Line number (counting from 1) of the offending character.
	Line int
	// Column number (counting from 1) of the offending character.
	Column int
	// Offending character, or -1 at end of input.
	Rune rune
	// State of the machine when rejected.
	State State
	// Reason for rejection.
	Msg string
}

func newRejection(text []rune, offset int, state State, msg string) *Rejection {
	var (
		line  = 1
		start = 0
		r     = rune(-1)
	)
	//
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	//
	if offset < len(text) {
		r = text[offset]
	}
	//
	return &Rejection{text, offset, line, offset - start + 1, r, state, msg}
}

// Error implements the error interface.
func (p *Rejection) Error() string {
	if p.Rune < 0 {
		return fmt.Sprintf("%d:%d: %s at end of input (%s)", p.Line, p.Column, p.Msg, p.State)
	}
	//
	return fmt.Sprintf("%d:%d: %s at %q (%s)", p.Line, p.Column, p.Msg, p.Rune, p.State)
}

// EnclosingLine returns the text of the line containing the offending
// character, without its line terminator.
func (p *Rejection) EnclosingLine() string {
	var (
		start = p.Offset - p.Column + 1
		end   = start
	)
	//
	for end < len(p.text) && p.text[end] != '\n' {
		end++
	}
	//
	return strings.TrimRight(string(p.text[start:end]), "\r")
}
