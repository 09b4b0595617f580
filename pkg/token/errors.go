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
	"strings"

	"github.com/consensys/go-termweave/pkg/graph"
)

// Stable codes identifying the different forms of format error.
const (
	ConflictingSources    = "conflicting-sources"
	AlreadyHasResult      = "already-has-result"
	ParameterWrongSubtree = "parameter-wrong-subtree"
	MissingOperand        = "missing-operand"
	MissingResult         = "missing-result"
	MissingParameter      = "missing-parameter"
	WrongNetwork          = "wrong-network"
	NotABinder            = "not-a-binder"
	NotATerm              = "not-a-term"
	DuplicateCase         = "duplicate-case"
	UnknownBlock          = "unknown-block"
	Cycle                 = "cycle"
	UnanchoredOrphan      = "unanchored-orphan"
	MalformedConstruct    = "malformed-construct"
)

// FormatError reports malformed wiring in the spatial graph.  It identifies
// the offending positions, so they can be highlighted, and carries a stable
// code for programmatic matching.
type FormatError struct {
	// Positions responsible for this error.
	Positions []graph.Position
	// Code identifying the form of error.
	Code string
	// Human readable description.
	Msg string
}

// NewFormatError constructs a new format error over the given positions.
func NewFormatError(code string, msg string, positions ...graph.Position) *FormatError {
	return &FormatError{positions, code, msg}
}

// Error implements the error interface.
func (p *FormatError) Error() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s: %s", p.Code, p.Msg))
	//
	for i, pos := range p.Positions {
		if i == 0 {
			builder.WriteString(" at ")
		} else {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(pos.String())
	}
	//
	return builder.String()
}
