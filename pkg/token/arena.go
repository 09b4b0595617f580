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

// Arena owns every token of one synthesis session.  Tokens refer to each other
// through identifiers into the arena, so there are no reference cycles to
// break when a session ends.
type Arena struct {
	tokens []Token
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	// Slot zero is reserved for Nil
	return &Arena{[]Token{nil}}
}

// Len returns the number of tokens allocated in this arena.
func (p *Arena) Len() int {
	return len(p.tokens) - 1
}

// Get returns the token with a given identifier.
func (p *Arena) Get(id ID) Token {
	if id == Nil || int(id) >= len(p.tokens) {
		panic(fmt.Sprintf("invalid token %d", id))
	}
	//
	return p.tokens[id]
}

// Root returns the construct root with a given identifier, or false if the
// token is not a root.
func (p *Arena) Root(id ID) (ConstructRoot, bool) {
	r, ok := p.Get(id).(ConstructRoot)
	return r, ok
}

// Input returns the term input with a given identifier.
func (p *Arena) Input(id ID) *TermInput {
	if in, ok := p.Get(id).(*TermInput); ok {
		return in
	}
	//
	panic(fmt.Sprintf("token %d is not an input", id))
}

// Parameter returns the parameter with a given identifier.
func (p *Arena) Parameter(id ID) *Parameter {
	if param, ok := p.Get(id).(*Parameter); ok {
		return param
	}
	//
	panic(fmt.Sprintf("token %d is not a parameter", id))
}

// Tokens returns all tokens in allocation order.
func (p *Arena) Tokens() []Token {
	return p.tokens[1:]
}

func (p *Arena) next() ID {
	return ID(len(p.tokens))
}

// NewConstant allocates a constant at a given output position.
func (p *Arena) NewConstant(output graph.Position, literal string) *Constant {
	c := &Constant{newRoot(p.next(), graph.Constant, output), literal}
	p.tokens = append(p.tokens, c)
	//
	return c
}

// NewApplication allocates an application, along with its two inputs.
func (p *Arena) NewApplication(output, applicand, argument graph.Position) *Application {
	app := &Application{newRoot(p.next(), graph.Application, output), Nil, Nil}
	p.tokens = append(p.tokens, app)
	app.applicand = p.NewTermInput(applicand, string(graph.RoleApplicand), app.id).id
	app.argument = p.NewTermInput(argument, string(graph.RoleArgument), app.id).id
	//
	return app
}

// NewFunction allocates a function without parameters or result.
func (p *Arena) NewFunction(output graph.Position) *Function {
	fn := &Function{binder{newRoot(p.next(), graph.Function, output), nil, Nil}}
	p.tokens = append(p.tokens, fn)
	//
	return fn
}

// NewQuantifier allocates a quantifier without parameters or result.
func (p *Arena) NewQuantifier(output graph.Position) *Quantifier {
	q := &Quantifier{binder{newRoot(p.next(), graph.Quantifier, output), nil, Nil}}
	p.tokens = append(p.tokens, q)
	//
	return q
}

// NewMatch allocates a match without arms, along with its input.  The match
// represents both its output and its input positions.
func (p *Arena) NewMatch(output, input graph.Position) *Match {
	m := &Match{newRoot(p.next(), graph.Match, output, input), Nil, nil}
	p.tokens = append(p.tokens, m)
	m.input = p.NewTermInput(input, string(graph.RoleInput), m.id).id
	//
	return m
}

// NewCaseArm allocates a case arm for a given constructor.
func (p *Arena) NewCaseArm(arm graph.Position, constructor string) *CaseArm {
	c := &CaseArm{binder{newRoot(p.next(), graph.CaseArm, arm), nil, Nil}, constructor, Nil}
	p.tokens = append(p.tokens, c)
	//
	return c
}

// NewParameter allocates an unattached parameter.
func (p *Arena) NewParameter(pos graph.Position, name string) *Parameter {
	param := &Parameter{newNode(p.next(), pos), name, Nil, Nil, nil, nil}
	p.tokens = append(p.tokens, param)
	//
	return param
}

// NewTermInput allocates an input owned by a given token.
func (p *Arena) NewTermInput(pos graph.Position, name string, owner ID) *TermInput {
	in := &TermInput{newNode(p.next(), pos), name, owner, Nil, Nil}
	p.tokens = append(p.tokens, in)
	//
	if owner != Nil {
		in.construct = p.Get(owner).Construct()
	}
	//
	return in
}

// AddSink connects an input to the source supplying it.  Only construct roots
// producing terms, and parameters, can supply inputs.
func (p *Arena) AddSink(source ID, input ID) error {
	in, ok := p.Get(input).(*TermInput)
	if !ok {
		panic(fmt.Sprintf("token %d cannot consume a value", input))
	}
	//
	switch s := p.Get(source).(type) {
	case *Constant, *Application, *Function, *Quantifier, *Match:
		if err := in.SetSource(source); err != nil {
			return err
		}
		//
		r := s.(rootAccess).base()
		r.incoming++
		r.sinks = append(r.sinks, input)
	case *Parameter:
		if err := in.SetSource(source); err != nil {
			return err
		}
		//
		s.sinks = append(s.sinks, input)
	default:
		return NewFormatError(NotATerm, fmt.Sprintf("%s does not supply a term", describe(s)),
			append(slices.Clone(s.Blocks()), in.blocks...)...)
	}
	//
	return nil
}

// AddParameter attaches a parameter to a binder.
func (p *Arena) AddParameter(binder ID, param ID) error {
	b, err := p.binder(binder, p.Get(param).Blocks())
	if err != nil {
		return err
	}
	//
	par := p.Parameter(param)
	par.binder = binder
	b.params = insertSorted(p, b.params, param)
	// Type annotations now belong to this binder.
	if par.typ != Nil {
		p.Input(par.typ).construct = binder
	}
	//
	return nil
}

// SetResult attaches the input supplying a binder's body.  A binder has at most
// one result.
func (p *Arena) SetResult(binder ID, input ID) error {
	in := p.Input(input)
	//
	b, err := p.binder(binder, in.blocks)
	if err != nil {
		return err
	} else if b.result != Nil {
		positions := append(slices.Clone(p.Input(b.result).blocks), in.blocks...)
		return NewFormatError(AlreadyHasResult, "binder already has a result", positions...)
	}
	//
	b.result = input
	in.owner = binder
	in.construct = binder
	//
	return nil
}

// AddArm attaches a case arm to a match.  No two arms of a match may handle
// the same constructor.
func (p *Arena) AddArm(match ID, arm ID) error {
	c, ok := p.Get(arm).(*CaseArm)
	if !ok {
		panic(fmt.Sprintf("token %d is not a case arm", arm))
	}
	//
	m, ok := p.Get(match).(*Match)
	if !ok {
		msg := fmt.Sprintf("case arm attached to %s", describe(p.Get(match)))
		return NewFormatError(NotABinder, msg, append(slices.Clone(p.Get(match).Blocks()), c.blocks...)...)
	}
	//
	for _, other := range m.arms {
		if o := p.Get(other).(*CaseArm); o.constructor == c.constructor {
			msg := fmt.Sprintf("constructor %s handled twice", c.constructor)
			return NewFormatError(DuplicateCase, msg, append(slices.Clone(o.blocks), c.blocks...)...)
		}
	}
	//
	c.match = match
	c.incoming++
	m.arms = insertSorted(p, m.arms, arm)
	//
	return nil
}

// AddAnchor anchors an otherwise unreferenced root to a parameter, such that
// it is emitted within the parameter's scope.  This counts as a use of the
// root.
func (p *Arena) AddAnchor(root ID, param ID) {
	r, ok := p.Get(root).(rootAccess)
	if !ok {
		panic(fmt.Sprintf("token %d is not a construct root", root))
	}
	//
	base := r.base()
	//
	if base.anchor != Nil {
		panic(fmt.Sprintf("root %d already anchored", root))
	}
	//
	par := p.Parameter(param)
	base.anchor = param
	base.incoming++
	par.anchors = append(par.anchors, root)
}

func (p *Arena) binder(id ID, positions []graph.Position) (*binder, error) {
	switch b := p.Get(id).(type) {
	case *Function:
		return &b.binder, nil
	case *Quantifier:
		return &b.binder, nil
	case *CaseArm:
		return &b.binder, nil
	default:
		msg := fmt.Sprintf("%s does not bind parameters", describe(b))
		return nil, NewFormatError(NotABinder, msg, append(slices.Clone(b.Blocks()), positions...)...)
	}
}

// rootAccess provides access to the shared root state of any construct root.
type rootAccess interface {
	base() *root
}

func (p *root) base() *root {
	return p
}

// Insert a token into a list kept in order of the tokens' first position.
func insertSorted(arena *Arena, items []ID, item ID) []ID {
	pos := arena.Get(item).Blocks()[0]
	//
	i, _ := slices.BinarySearchFunc(items, pos, func(id ID, target graph.Position) int {
		return arena.Get(id).Blocks()[0].Compare(target)
	})
	//
	return slices.Insert(items, i, item)
}

// Describe a token in human readable form for error messages.
func describe(t Token) string {
	switch t := t.(type) {
	case ConstructRoot:
		return t.Kind().String()
	case *Parameter:
		return "parameter"
	case *TermInput:
		return fmt.Sprintf("input %s", t.name)
	default:
		return "token"
	}
}
