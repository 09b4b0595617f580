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
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Dot renders every token of the arena, and the operand edges between them, as
// a graphviz digraph.  This is purely a debugging aid.
func (p *Arena) Dot() string {
	var sb strings.Builder
	//
	sb.WriteString("digraph tokens {\n")
	sb.WriteString("  node [shape=box];\n")
	//
	for _, t := range p.Tokens() {
		sb.WriteString(fmt.Sprintf("  t%d [label=%s];\n", t.ID(), strconv.Quote(label(t))))
	}
	//
	for _, t := range p.Tokens() {
		for _, c := range t.Children() {
			sb.WriteString(fmt.Sprintf("  t%d -> t%d [label=%s];\n", t.ID(), c.Token, strconv.Quote(c.Name)))
		}
	}
	//
	sb.WriteString("}\n")
	//
	return sb.String()
}

func label(t Token) string {
	var text string
	//
	switch t := t.(type) {
	case *Constant:
		text = fmt.Sprintf("constant %s", t.literal)
	case *CaseArm:
		text = fmt.Sprintf("case-arm %s", t.constructor)
	case ConstructRoot:
		text = t.Kind().String()
	case *Parameter:
		text = fmt.Sprintf("parameter %s", t.name)
	case *TermInput:
		text = fmt.Sprintf("input %s", t.name)
	}
	//
	return fmt.Sprintf("%s\n%s", text, t.Blocks()[0])
}
