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
	"slices"

	"github.com/consensys/go-termweave/pkg/graph"
)

// ID identifies a token within its arena.  Tokens refer to each other only
// through identifiers, never through pointers.
type ID uint32

// Nil is the identifier of no token at all.
const Nil ID = 0

// Child is a named operand of a token.
type Child struct {
	Name  string
	Token ID
}

// Token is a node of the synthesised expression graph.
type Token interface {
	// ID returns the identifier of this token in its arena.
	ID() ID
	// Blocks returns the position(s) this token represents.
	Blocks() []graph.Position
	// Children returns the direct operands of this token.  These are computed
	// from the current state, so they always reflect the latest wiring.
	Children() []Child
	// Construct returns the root this token belongs to (itself, for roots),
	// or Nil if it is not yet attached to one.
	Construct() ID
	// PendingRef returns the number of positions still holding a reference
	// on this token.
	PendingRef() int
	// PendingRefLocations returns the positions holding a reference on this
	// token, in position order.
	PendingRefLocations() []graph.Position
	// AddRef records a reference held by a given position.  Each position
	// holds at most one reference on any token, hence this panics if the
	// position already holds one.
	AddRef(requester graph.Position)
	// ReleaseRef removes the reference held by a given position, returning
	// true if this was the last reference.  This panics if the position holds
	// no reference.
	ReleaseRef(requester graph.Position) bool
	// HoldsRef checks whether a given position holds a reference on this
	// token.
	HoldsRef(pos graph.Position) bool
	// AddBlock records an additional position represented by this token.
	AddBlock(pos graph.Position)
	// ScopeConnectors returns the positions attached to this token along the
	// scope network.
	ScopeConnectors() []graph.Position
	// TermConnectors returns the positions attached to this token along the
	// term network.
	TermConnectors() []graph.Position
	// AddConnector records a position attached to this token along a given
	// network.
	AddConnector(network graph.Network, pos graph.Position)
}

// node provides the bookkeeping shared by all tokens.
type node struct {
	id     ID
	blocks []graph.Position
	// Positions holding a reference on this token.
	refs map[graph.Position]struct{}
	// Positions attached along the scope network.
	scopeConnectors []graph.Position
	// Positions attached along the term network.
	termConnectors []graph.Position
}

func newNode(id ID, blocks ...graph.Position) node {
	return node{id, blocks, make(map[graph.Position]struct{}), nil, nil}
}

// ID implementation for Token interface.
func (p *node) ID() ID {
	return p.id
}

// Blocks implementation for Token interface.
func (p *node) Blocks() []graph.Position {
	return p.blocks
}

// AddBlock records an additional position represented by this token.
func (p *node) AddBlock(pos graph.Position) {
	if !slices.Contains(p.blocks, pos) {
		p.blocks = append(p.blocks, pos)
	}
}

// PendingRef implementation for Token interface.
func (p *node) PendingRef() int {
	return len(p.refs)
}

// PendingRefLocations implementation for Token interface.
func (p *node) PendingRefLocations() []graph.Position {
	locations := make([]graph.Position, 0, len(p.refs))
	//
	for pos := range p.refs {
		locations = append(locations, pos)
	}
	//
	return graph.SortPositions(locations)
}

// HoldsRef checks whether a given position holds a reference on this token.
func (p *node) HoldsRef(pos graph.Position) bool {
	_, ok := p.refs[pos]
	return ok
}

// AddRef implementation for Token interface.
func (p *node) AddRef(requester graph.Position) {
	if _, ok := p.refs[requester]; ok {
		panic(fmt.Sprintf("position %s already holds a reference on token %d", requester, p.id))
	}
	//
	p.refs[requester] = struct{}{}
}

// ReleaseRef implementation for Token interface.
func (p *node) ReleaseRef(requester graph.Position) bool {
	if _, ok := p.refs[requester]; !ok {
		panic(fmt.Sprintf("position %s holds no reference on token %d", requester, p.id))
	}
	//
	delete(p.refs, requester)
	//
	return len(p.refs) == 0
}

// ScopeConnectors implementation for Token interface.
func (p *node) ScopeConnectors() []graph.Position {
	return p.scopeConnectors
}

// TermConnectors implementation for Token interface.
func (p *node) TermConnectors() []graph.Position {
	return p.termConnectors
}

// AddConnector implementation for Token interface.
func (p *node) AddConnector(network graph.Network, pos graph.Position) {
	if network == graph.ScopeNetwork {
		p.scopeConnectors = append(p.scopeConnectors, pos)
	} else {
		p.termConnectors = append(p.termConnectors, pos)
	}
}

// TermInput is a sink slot of a construct, holding at most one supplier.
type TermInput struct {
	node
	// Name of the slot within its owner (e.g. "applicand").
	name string
	// Token owning this input (a construct root, or a parameter for type
	// annotations).
	owner ID
	// Root this input belongs to, once known.
	construct ID
	// Supplier of this input, or Nil if not yet set.
	value ID
}

// Name returns the name of this input within its owner.
func (p *TermInput) Name() string {
	return p.name
}

// Owner returns the token owning this input.
func (p *TermInput) Owner() ID {
	return p.owner
}

// Value returns the supplier of this input, or Nil if it has not been set.
func (p *TermInput) Value() ID {
	return p.value
}

// HasValue checks whether this input has been supplied.
func (p *TermInput) HasValue() bool {
	return p.value != Nil
}

// SetSource sets the supplier of this input.  This can happen only once.
func (p *TermInput) SetSource(source ID) error {
	if p.value != Nil {
		return NewFormatError(ConflictingSources, "input already has a source", p.blocks...)
	}
	//
	p.value = source
	//
	return nil
}

// Construct implementation for Token interface.
func (p *TermInput) Construct() ID {
	return p.construct
}

// Children implementation for Token interface.
func (p *TermInput) Children() []Child {
	if p.value == Nil {
		return nil
	}
	//
	return []Child{{"value", p.value}}
}

// Parameter is a bound variable introduced by a function, quantifier or case
// arm.  Parameters are also the points at which otherwise unreferenced roots
// can be anchored.
type Parameter struct {
	node
	// Declared name (if any).
	name string
	// Type annotation input, or Nil.
	typ ID
	// Binder this parameter is attached to, or Nil.
	binder ID
	// Inputs reading this parameter.
	sinks []ID
	// Roots anchored to this parameter.
	anchors []ID
}

// Name returns the declared name of this parameter (which may be empty).
func (p *Parameter) Name() string {
	return p.name
}

// Type returns the type annotation input, or Nil if there is none.
func (p *Parameter) Type() ID {
	return p.typ
}

// SetType sets the type annotation input of this parameter.
func (p *Parameter) SetType(input ID) {
	p.typ = input
}

// Binder returns the binder this parameter is attached to, or Nil.
func (p *Parameter) Binder() ID {
	return p.binder
}

// Sinks returns the inputs which read this parameter.
func (p *Parameter) Sinks() []ID {
	return p.sinks
}

// HasSinks checks whether anything reads this parameter.
func (p *Parameter) HasSinks() bool {
	return len(p.sinks) > 0
}

// Anchors returns the roots anchored to this parameter.
func (p *Parameter) Anchors() []ID {
	return p.anchors
}

// Construct implementation for Token interface.
func (p *Parameter) Construct() ID {
	return p.binder
}

// Children implementation for Token interface.
func (p *Parameter) Children() []Child {
	var children []Child
	//
	if p.typ != Nil {
		children = append(children, Child{"type", p.typ})
	}
	//
	for _, a := range p.anchors {
		children = append(children, Child{"anchor", a})
	}
	//
	return children
}
