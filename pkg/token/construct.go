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
	"github.com/consensys/go-termweave/pkg/graph"
)

// ConstructRoot is a token which can be emitted on its own: constants,
// applications, functions, quantifiers, matches and case arms.
type ConstructRoot interface {
	Token
	// Kind returns the kind of construct this is.
	Kind() graph.Kind
	// IncomingEdgeCount returns the number of uses of this construct.  A
	// construct with more than one use must be bound once and referred to by
	// name.
	IncomingEdgeCount() int
	// Anchor returns the parameter this root has been anchored to, or Nil.
	Anchor() ID
}

// TermSource is a construct root whose value can be consumed by term inputs.
type TermSource interface {
	ConstructRoot
	// HasSinks checks whether any input consumes this source.
	HasSinks() bool
	// Sinks returns the inputs consuming this source.
	Sinks() []ID
}

// Binder is a construct root which introduces parameters (functions,
// quantifiers and case arms).
type Binder interface {
	ConstructRoot
	// Parameters returns the parameters bound by this construct, in position
	// order.
	Parameters() []ID
	// Result returns the input supplying this binder's body, or Nil.
	Result() ID
}

// root provides the bookkeeping shared by all construct roots.
type root struct {
	node
	kind graph.Kind
	// Number of uses
	incoming int
	// Inputs consuming this root.
	sinks []ID
	// Parameter this root is anchored to.
	anchor ID
}

func newRoot(id ID, kind graph.Kind, blocks ...graph.Position) root {
	return root{newNode(id, blocks...), kind, 0, nil, Nil}
}

// Construct implementation for Token interface.
func (p *root) Construct() ID {
	return p.id
}

// Kind implementation for ConstructRoot interface.
func (p *root) Kind() graph.Kind {
	return p.kind
}

// IncomingEdgeCount implementation for ConstructRoot interface.
func (p *root) IncomingEdgeCount() int {
	return p.incoming
}

// Anchor implementation for ConstructRoot interface.
func (p *root) Anchor() ID {
	return p.anchor
}

// HasSinks implementation for TermSource interface.
func (p *root) HasSinks() bool {
	return len(p.sinks) > 0
}

// Sinks implementation for TermSource interface.
func (p *root) Sinks() []ID {
	return p.sinks
}

// Constant is a literal.
type Constant struct {
	root
	literal string
}

// Literal returns the text of this constant.
func (p *Constant) Literal() string {
	return p.literal
}

// Children implementation for Token interface.
func (p *Constant) Children() []Child {
	return nil
}

// Application applies an applicand to an argument.
type Application struct {
	root
	applicand ID
	argument  ID
}

// Applicand returns the input supplying the function being applied.
func (p *Application) Applicand() ID {
	return p.applicand
}

// Argument returns the input supplying the argument.
func (p *Application) Argument() ID {
	return p.argument
}

// Children implementation for Token interface.
func (p *Application) Children() []Child {
	return []Child{{"applicand", p.applicand}, {"argument", p.argument}}
}

// binder provides the bookkeeping shared by functions, quantifiers and case
// arms.
type binder struct {
	root
	params []ID
	result ID
}

// Parameters implementation for Binder interface.
func (p *binder) Parameters() []ID {
	return p.params
}

// Result implementation for Binder interface.
func (p *binder) Result() ID {
	return p.result
}

// Children implementation for Token interface.
func (p *binder) Children() []Child {
	var children []Child
	//
	for _, param := range p.params {
		children = append(children, Child{"parameter", param})
	}
	//
	if p.result != Nil {
		children = append(children, Child{"result", p.result})
	}
	//
	return children
}

// Function is a lambda abstraction.
type Function struct {
	binder
}

// Quantifier is a universal quantification.
type Quantifier struct {
	binder
}

// Match is a pattern match over an input.
type Match struct {
	root
	input ID
	arms  []ID
}

// Input returns the input supplying the matched value.
func (p *Match) Input() ID {
	return p.input
}

// Arms returns the case arms of this match, in position order.
func (p *Match) Arms() []ID {
	return p.arms
}

// Children implementation for Token interface.
func (p *Match) Children() []Child {
	children := []Child{{"input", p.input}}
	//
	for _, arm := range p.arms {
		children = append(children, Child{"arm", arm})
	}
	//
	return children
}

// CaseArm is one arm of a match.
type CaseArm struct {
	binder
	constructor string
	match       ID
}

// Constructor returns the name of the constructor matched by this arm.
func (p *CaseArm) Constructor() string {
	return p.constructor
}

// Match returns the match this arm belongs to, or Nil.
func (p *CaseArm) Match() ID {
	return p.match
}
