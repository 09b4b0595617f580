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
package codegen

import "strings"

// Writer accumulates indented lines of generated text.
type Writer struct {
	// Current indent level
	indent int
	// Lines being written
	lines []string
}

func (p *Writer) String() string {
	var builder strings.Builder
	//
	for _, l := range p.lines {
		builder.WriteString(l)
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// Indent increases or decreases the current indent level.
func (p *Writer) Indent(delta int) {
	p.indent += delta
}

// NewLine starts a new line at the current indent level.  Trailing whitespace
// on the line being finished is removed.  An empty writer has an empty current
// line, which is finished like any other.
func (p *Writer) NewLine() {
	if n := len(p.lines); n > 0 {
		p.lines[n-1] = strings.TrimRight(p.lines[n-1], " ")
	} else {
		p.lines = append(p.lines, "")
	}
	//
	p.lines = append(p.lines, strings.Repeat("  ", p.indent))
}

// WriteString writes a string into the current line.
func (p *Writer) WriteString(str string) {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, str)
	} else {
		p.lines[len(p.lines)-1] += str
	}
}
