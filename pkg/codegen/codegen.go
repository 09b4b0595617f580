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

import (
	"fmt"
	"strings"

	"github.com/consensys/go-termweave/pkg/scope"
	"github.com/consensys/go-termweave/pkg/token"
)

// Position within an enclosing expression, which determines whether an
// expression needs parentheses.
type context int

const (
	// Top-level, or otherwise delimited (e.g. the value of a let).
	topContext context = iota
	// Function position of an application.
	applicandContext
	// Argument position of an application.
	argumentContext
)

// EmitDefinition generates the text of a definition with a given name, whose
// body is the main root of a given plan.  Reading a parameter anywhere other
// than within the body of its binder is an error.
func EmitDefinition(plan *scope.Plan, name string) (string, error) {
	if !IsIdentifier(name) {
		return "", fmt.Errorf("invalid definition name \"%s\"", name)
	}
	//
	g := newGenerator(plan, name)
	//
	g.text.WriteString(fmt.Sprintf("Definition %s := ", name))
	//
	if err := g.letPoint(scope.Definition, nil, func() error { return g.expr(plan.Main, topContext) }); err != nil {
		return "", err
	}
	//
	g.text.WriteString(".")
	//
	return g.text.String(), nil
}

type generator struct {
	plan  *scope.Plan
	arena *token.Arena
	text  Writer
	names *Names
	// Names of parameters and shared roots.
	bound map[token.ID]string
	// Parameters currently in scope.
	visible map[token.ID]bool
}

func newGenerator(plan *scope.Plan, name string) *generator {
	var taken = []string{name}
	// Constants and constructors may refer to global definitions, which must
	// not be shadowed.
	for _, tok := range plan.Arena.Tokens() {
		switch t := tok.(type) {
		case *token.Constant:
			taken = append(taken, t.Literal())
		case *token.CaseArm:
			taken = append(taken, t.Constructor())
		}
	}
	//
	return &generator{
		plan:    plan,
		arena:   plan.Arena,
		names:   NewNames(taken...),
		bound:   make(map[token.ID]string),
		visible: make(map[token.ID]bool),
	}
}

// Write the body of a let point: the bindings of shared roots placed here, the
// orphans anchored to the given parameters, then the body itself.
func (p *generator) letPoint(id token.ID, params []token.ID, body func() error) error {
	var (
		bindings = p.plan.Bindings(id)
		orphans  []token.ID
	)
	//
	for _, param := range params {
		orphans = append(orphans, p.arena.Parameter(param).Anchors()...)
	}
	//
	if len(bindings) == 0 && len(orphans) == 0 {
		return body()
	}
	//
	p.text.Indent(1)
	//
	for _, shared := range bindings {
		name := p.names.Fresh(Shared(p.plan.Arena.Get(shared).(token.ConstructRoot).Kind(), p.plan.Position(shared)))
		//
		p.text.NewLine()
		p.text.WriteString(fmt.Sprintf("let %s := ", name))
		//
		if err := p.construct(shared, topContext); err != nil {
			return err
		}
		//
		p.text.WriteString(" in")
		p.bound[shared] = name
	}
	//
	for _, orphan := range orphans {
		p.text.NewLine()
		p.text.WriteString("let _ := ")
		//
		if err := p.expr(orphan, topContext); err != nil {
			return err
		}
		//
		p.text.WriteString(" in")
	}
	//
	p.text.NewLine()
	//
	err := body()
	//
	p.text.Indent(-1)
	//
	return err
}

// Write the value supplied to a given input.
func (p *generator) input(id token.ID, ctx context) error {
	var (
		in = p.arena.Input(id)
		v  = in.Value()
	)
	//
	if param, ok := p.arena.Get(v).(*token.Parameter); ok {
		if !p.visible[v] {
			msg := fmt.Sprintf("parameter %s read outside its binder", param.Name())
			return token.NewFormatError(token.ParameterWrongSubtree, msg, param.Blocks()[0], in.Blocks()[0])
		}
		//
		p.text.WriteString(p.bound[v])
		//
		return nil
	}
	//
	return p.expr(v, ctx)
}

// Write a reference to a given root, which is either its name (if shared) or
// the construct itself.
func (p *generator) expr(id token.ID, ctx context) error {
	if !p.plan.IsShared(id) {
		return p.construct(id, ctx)
	} else if name, ok := p.bound[id]; ok {
		p.text.WriteString(name)
		return nil
	}
	//
	panic(fmt.Sprintf("shared construct at %s used before being bound", p.plan.Position(id)))
}

// Write a given root in full.
func (p *generator) construct(id token.ID, ctx context) error {
	switch t := p.arena.Get(id).(type) {
	case *token.Constant:
		return p.constant(t, ctx)
	case *token.Application:
		return p.parenthesise(ctx == argumentContext, func() error {
			if err := p.input(t.Applicand(), applicandContext); err != nil {
				return err
			}
			//
			p.text.WriteString(" ")
			//
			return p.input(t.Argument(), argumentContext)
		})
	case *token.Function:
		return p.parenthesise(ctx != topContext, func() error {
			return p.binder(id, t, "fun", " =>")
		})
	case *token.Quantifier:
		return p.parenthesise(ctx != topContext, func() error {
			return p.binder(id, t, "forall", ",")
		})
	case *token.Match:
		return p.parenthesise(ctx != topContext, func() error {
			return p.match(t)
		})
	default:
		panic(fmt.Sprintf("cannot emit %s at %s", t.(token.ConstructRoot).Kind(), p.plan.Position(id)))
	}
}

func (p *generator) constant(c *token.Constant, ctx context) error {
	literal := c.Literal()
	//
	if literal == "" {
		return token.NewFormatError(token.MalformedConstruct, "constant without literal", c.Blocks()[0])
	}
	//
	return p.parenthesise(ctx != topContext && strings.ContainsAny(literal, " \t"), func() error {
		p.text.WriteString(literal)
		return nil
	})
}

func (p *generator) binder(id token.ID, b token.Binder, keyword string, separator string) error {
	defer p.hide(b.Parameters())
	//
	return p.parameters(id, b, b.Parameters(), keyword, separator)
}

// Declare the remaining parameters of a binder, followed by its body.  When
// shared constructs are bound just after some parameter, the binder is split in
// two around their bindings.
func (p *generator) parameters(id token.ID, b token.Binder, params []token.ID, keyword string, separator string) error {
	p.text.WriteString(keyword)
	//
	for i, param := range params {
		if err := p.parameter(param); err != nil {
			return err
		}
		//
		if rest := params[i+1:]; len(rest) > 0 && len(p.plan.Bindings(param)) > 0 {
			p.text.WriteString(separator + " ")
			//
			return p.letPoint(param, nil, func() error {
				return p.parameters(id, b, rest, keyword, separator)
			})
		}
	}
	//
	p.text.WriteString(separator + " ")
	//
	return p.letPoint(id, b.Parameters(), func() error { return p.input(b.Result(), topContext) })
}

// Declare a binder's parameter, which becomes visible to everything after it.
func (p *generator) parameter(id token.ID) error {
	var (
		param = p.arena.Parameter(id)
		name  = p.names.Fresh(param.Name())
	)
	//
	if param.Type() == token.Nil {
		p.text.WriteString(" " + name)
	} else {
		p.text.WriteString(fmt.Sprintf(" (%s : ", name))
		//
		if err := p.input(param.Type(), topContext); err != nil {
			return err
		}
		//
		p.text.WriteString(")")
	}
	//
	p.bound[id] = name
	p.visible[id] = true
	//
	return nil
}

func (p *generator) match(m *token.Match) error {
	p.text.WriteString("match ")
	//
	if err := p.input(m.Input(), applicandContext); err != nil {
		return err
	}
	//
	p.text.WriteString(" with")
	//
	for _, id := range m.Arms() {
		arm := p.arena.Get(id).(*token.CaseArm)
		params := arm.Parameters()
		//
		p.text.WriteString(" | " + arm.Constructor())
		// Patterns carry no type annotations
		for _, param := range params {
			name := p.names.Fresh(p.arena.Parameter(param).Name())
			p.text.WriteString(" " + name)
			p.bound[param] = name
			p.visible[param] = true
		}
		//
		p.text.WriteString(" => ")
		//
		err := p.letPoint(id, params, func() error { return p.input(arm.Result(), topContext) })
		//
		p.hide(params)
		//
		if err != nil {
			return err
		}
	}
	//
	p.text.WriteString(" end")
	//
	return nil
}

// Parameters leave scope at the end of their binder's body.
func (p *generator) hide(params []token.ID) {
	for _, param := range params {
		delete(p.visible, param)
	}
}

func (p *generator) parenthesise(parens bool, fn func() error) error {
	if parens {
		p.text.WriteString("(")
	}
	//
	if err := fn(); err != nil {
		return err
	}
	//
	if parens {
		p.text.WriteString(")")
	}
	//
	return nil
}
