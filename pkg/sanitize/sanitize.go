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
	"slices"
	"strings"
)

// State identifies a state of the sanitizer's machine.
type State uint8

const (
	// BeforeCommand is between sentences.
	BeforeCommand State = iota
	// Command is reading the keyword which opens a sentence.
	Command
	// Import is reading the remainder of a From ... Require Import sentence.
	Import
	// Ltac2Start follows the Ltac2 keyword, where only Eval is permitted.
	Ltac2Start
	// BodyTokenStart is between tokens in the body of a sentence.
	BodyTokenStart
	// InToken is reading an identifier (possibly qualified).
	InToken
	// InNumber is reading the integer part of a number.
	InNumber
	// InDecimal is reading the fractional part of a number.
	InDecimal
	// InQuote is reading a string literal.
	InQuote
	// InQuoteEnd follows a quote within a string literal, which either closes
	// it or (when doubled) escapes a quote.
	InQuoteEnd
)

var stateNames = []string{
	"BeforeCommand", "Command", "Import", "Ltac2Start", "BodyTokenStart", "InToken", "InNumber", "InDecimal",
	"InQuote", "InQuoteEnd",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	//
	return fmt.Sprintf("state(%d)", s)
}

// ImportPair is a (namespace, symbol) pair which may be imported.
type ImportPair struct {
	Namespace string
	Symbol    string
}

// Policy determines what the sanitizer accepts.
type Policy struct {
	// Commands which open a sentence with a body.
	Commands []string
	// Permitted imports.
	Imports []ImportPair
}

// DefaultPolicy returns the policy applied by Sanitize.
func DefaultPolicy() Policy {
	return Policy{
		Commands: []string{"Definition", "Lemma", "Theorem", "Example", "Goal", "Check", "Compute"},
		Imports: []ImportPair{
			{"Coq", "Arith"},
			{"Coq", "Bool"},
			{"Coq", "Lists.List"},
			{"Coq", "Strings.String"},
			{"Ltac2", "Ltac2"},
		},
	}
}

// Operators permitted in a sentence body, longest first.
var operators = []string{
	":=", "=>", "->", "<=", ">=", "<>", "/\\", "\\/",
	":", ",", "(", ")", "|", "_", "=", "+", "-", "*", "<", ">", "~", "@", "%",
}

// Sanitize checks a given text against the default policy, returning a
// *Rejection for the first thing it does not permit.
func Sanitize(text string) error {
	return DefaultPolicy().Sanitize(text)
}

// Sanitize checks a given text against this policy in a single pass, returning
// a *Rejection for the first thing not permitted.
func (p Policy) Sanitize(text string) error {
	m := machine{policy: p, text: []rune(text), state: BeforeCommand}
	//
	for m.index < len(m.text) {
		if err := m.step(); err != nil {
			return err
		}
	}
	//
	switch m.state {
	case BeforeCommand:
		return nil
	case InQuote:
		return m.reject(len(m.text), "unterminated string")
	default:
		return m.reject(len(m.text), "unexpected end of input")
	}
}

type machine struct {
	policy Policy
	text   []rune
	index  int
	state  State
	// Start of the word being read, for commands and imports.
	start int
	// Words of the current import sentence.
	words []string
}

func (p *machine) step() error {
	var r = p.text[p.index]
	//
	if r > 0x7e || (r < 0x20 && !isSpace(r)) {
		return p.reject(p.index, "character not permitted")
	}
	//
	switch p.state {
	case BeforeCommand:
		return p.beforeCommand(r)
	case Command:
		return p.command(r)
	case Import:
		return p.importWord(r)
	case Ltac2Start:
		return p.ltac2Start(r)
	case BodyTokenStart:
		return p.bodyTokenStart(r)
	case InToken:
		return p.inToken(r)
	case InNumber, InDecimal:
		return p.inNumber(r)
	case InQuote:
		return p.inQuote(r)
	case InQuoteEnd:
		return p.inQuoteEnd(r)
	}
	//
	panic(fmt.Sprintf("unknown state %s", p.state))
}

func (p *machine) beforeCommand(r rune) error {
	switch {
	case isSpace(r):
		p.index++
	case isUpper(r):
		p.start = p.index
		p.state = Command
	default:
		return p.reject(p.index, "expected command")
	}
	//
	return nil
}

func (p *machine) command(r rune) error {
	if isLetter(r) || isDigit(r) {
		p.index++
		return nil
	}
	//
	switch word := p.word(); {
	case word != "From" && word != "Ltac2" && !slices.Contains(p.policy.Commands, word):
		return p.reject(p.start, fmt.Sprintf("command %s not permitted", word))
	case !isSpace(r):
		return p.reject(p.index, "malformed command")
	case slices.Contains(p.policy.Commands, word):
		p.state = BodyTokenStart
	case word == "From":
		p.state = Import
		p.words = nil
	default:
		p.state = Ltac2Start
		p.start = -1
	}
	//
	return nil
}

// Words of an import sentence are separated by whitespace and may contain
// dots, with the final dot ending the sentence.
func (p *machine) importWord(r rune) error {
	switch {
	case isSpace(r):
		p.index++
	case isLetter(r) || isDigit(r) || r == '_':
		p.start = p.index
		//
		for p.index < len(p.text) && isWord(p.text[p.index]) {
			p.index++
		}
		//
		p.words = append(p.words, string(p.text[p.start:p.index]))
	case r == '.' && p.sentenceEnd():
		p.index++
		return p.checkImport()
	case r == '.':
		// Qualified symbol, such as Lists.List
		if len(p.words) == 0 || p.index+1 >= len(p.text) || !isLetter(p.text[p.index+1]) ||
			isSpace(p.text[p.index-1]) {
			return p.reject(p.index, "malformed import")
		}
		//
		p.index++
		p.start = p.index
		//
		for p.index < len(p.text) && isWord(p.text[p.index]) {
			p.index++
		}
		//
		p.words[len(p.words)-1] += "." + string(p.text[p.start:p.index])
	default:
		return p.reject(p.index, "malformed import")
	}
	//
	return nil
}

func (p *machine) checkImport() error {
	var (
		words = p.words
		at    = p.index - 1
	)
	//
	if len(words) != 4 || words[1] != "Require" || words[2] != "Import" {
		return p.reject(at, fmt.Sprintf("malformed import \"%s\"", strings.Join(words, " ")))
	}
	//
	pair := ImportPair{words[0], words[3]}
	//
	if !slices.Contains(p.policy.Imports, pair) {
		return p.reject(at, fmt.Sprintf("import %s.%s not permitted", pair.Namespace, pair.Symbol))
	}
	//
	p.state = BeforeCommand
	//
	return nil
}

func (p *machine) ltac2Start(r rune) error {
	switch {
	case isSpace(r) && p.start < 0:
		p.index++
	case isLetter(r):
		if p.start < 0 {
			p.start = p.index
		}
		//
		p.index++
	case isSpace(r) && p.word() == "Eval":
		p.state = BodyTokenStart
	default:
		if p.start < 0 {
			p.start = p.index
		}
		//
		return p.reject(p.start, "only Eval permitted after Ltac2")
	}
	//
	return nil
}

func (p *machine) bodyTokenStart(r rune) error {
	switch {
	case isSpace(r):
		p.index++
	case isLetter(r) || r == '_' && p.index+1 < len(p.text) && isWord(p.text[p.index+1]):
		p.state = InToken
		p.index++
	case isDigit(r):
		p.state = InNumber
		p.index++
	case r == '"':
		p.state = InQuote
		p.index++
	case r == '.' && p.sentenceEnd():
		p.state = BeforeCommand
		p.index++
	case r == '(' && p.index+1 < len(p.text) && p.text[p.index+1] == '*':
		return p.reject(p.index, "comments not permitted")
	default:
		for _, op := range operators {
			if p.hasPrefix(op) {
				p.index += len(op)
				return nil
			}
		}
		//
		return p.reject(p.index, "character not permitted")
	}
	//
	return nil
}

func (p *machine) inToken(r rune) error {
	switch {
	case isWord(r):
		p.index++
	case r == '.' && p.index+1 < len(p.text) && isLetter(p.text[p.index+1]):
		// Qualified name
		p.index++
	default:
		p.state = BodyTokenStart
	}
	//
	return nil
}

func (p *machine) inNumber(r rune) error {
	switch {
	case isDigit(r):
		p.index++
	case r == '.' && p.state == InNumber && p.index+1 < len(p.text) && isDigit(p.text[p.index+1]):
		p.state = InDecimal
		p.index++
	case isLetter(r) || r == '_' || r == '\'':
		return p.reject(p.index, "malformed number")
	default:
		p.state = BodyTokenStart
	}
	//
	return nil
}

func (p *machine) inQuote(r rune) error {
	switch {
	case r == '"':
		p.state = InQuoteEnd
	case r < 0x20:
		return p.reject(p.index, "character not permitted in string")
	}
	//
	p.index++
	//
	return nil
}

func (p *machine) inQuoteEnd(r rune) error {
	if r == '"' {
		p.state = InQuote
		p.index++
	} else {
		p.state = BodyTokenStart
	}
	//
	return nil
}

// Check whether the dot at the current index ends a sentence.
func (p *machine) sentenceEnd() bool {
	return p.index+1 == len(p.text) || isSpace(p.text[p.index+1])
}

func (p *machine) hasPrefix(s string) bool {
	var end = p.index + len(s)
	//
	return end <= len(p.text) && string(p.text[p.index:end]) == s
}

func (p *machine) word() string {
	return string(p.text[p.start:p.index])
}

func (p *machine) reject(index int, msg string) *Rejection {
	return newRejection(p.text, index, p.state, msg)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isLetter(r rune) bool {
	return isUpper(r) || (r >= 'a' && r <= 'z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWord(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_' || r == '\''
}
