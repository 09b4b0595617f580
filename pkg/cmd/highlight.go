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
	"strings"

	"github.com/consensys/go-termweave/pkg/sanitize"
	"golang.org/x/term"
)

const (
	termRed    = uint(1)
	termYellow = uint(3)
)

// ansiEscape represents an ANSI escape code used for formatting text in a
// terminal.
type ansiEscape struct {
	escape string
	count  uint
}

func resetEscape() ansiEscape {
	return ansiEscape{"\033[0", 1}
}

func boldEscape() ansiEscape {
	return ansiEscape{"\033[1", 1}
}

// Set the foreground colour
func (p ansiEscape) fgColour(col uint) ansiEscape {
	return ansiEscape{fmt.Sprintf("%s;%d", p.escape, col+30), p.count + 1}
}

func (p ansiEscape) String() string {
	return p.escape + "m"
}

// Print a sanitizer rejection, highlighting the offending character with a
// caret.  Colour is only used when writing to a terminal.
func printRejection(filename string, rej *sanitize.Rejection) {
	fmt.Print(formatRejection(filename, rej, term.IsTerminal(int(os.Stdout.Fd()))))
}

func formatRejection(filename string, rej *sanitize.Rejection, colour bool) string {
	var (
		builder strings.Builder
		line    = []rune(rej.EnclosingLine())
		column  = rej.Column - 1
	)
	// Error + line number
	builder.WriteString(fmt.Sprintf("%s:%s\n", filename, rej.Error()))
	// Line, with offending character highlighted
	if colour && column < len(line) {
		escape := boldEscape().fgColour(termRed)
		builder.WriteString(fmt.Sprintf("%s%s%s%s%s\n", string(line[:column]), escape, string(line[column]),
			resetEscape(), string(line[column+1:])))
	} else {
		builder.WriteString(string(line) + "\n")
	}
	// Indent (todo: account for tabs)
	builder.WriteString(strings.Repeat(" ", column))
	// Highlight
	if colour {
		builder.WriteString(fmt.Sprintf("%s^%s\n", boldEscape().fgColour(termYellow), resetEscape()))
	} else {
		builder.WriteString("^\n")
	}
	//
	return builder.String()
}
