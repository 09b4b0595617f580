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
package scope

import (
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/synth"
	"github.com/consensys/go-termweave/pkg/token"
	log "github.com/sirupsen/logrus"
)

// Definition identifies the outermost let point, i.e. the body of the
// definition itself.  Every other let point is identified either by the binder
// (function, quantifier or case arm) whose body it is, or by a parameter of a
// function or quantifier (other than its last) for the point just after that
// parameter is declared.
const Definition = token.Nil

// Plan determines where every construct of a synthesised graph is placed
// within the emitted expression.  Constructs used more than once are bound at
// a let point, whilst the rest are inlined at their only use.
type Plan struct {
	// Arena holding all tokens.
	Arena *token.Arena
	// Root of the definition.
	Main token.ID
	// Unreferenced roots which are not emitted.
	Pruned []token.ID
	// Number of uses of each root within the emitted expression.
	live map[token.ID]int
	// Shared roots bound at each let point, in emission order.
	bindings map[token.ID][]token.ID
}

// Assign determines the placement of every construct produced by a successful
// synthesis run.  Unreferenced roots are first anchored to parameters (or
// pruned), after which shared constructs are lifted to the let point
// enclosing all of their uses.
func Assign(result synth.Result) (*Plan, error) {
	arena := result.Arena
	//
	if err := CheckAcyclic(arena); err != nil {
		return nil, err
	}
	//
	pruned, err := ScopeUnused(arena, result.Main, result.Unreferenced)
	if err != nil {
		return nil, err
	}
	//
	for _, id := range pruned {
		root, _ := arena.Root(id)
		log.Debugf("pruned unused %s at %s", root.Kind(), root.Blocks()[0])
	}
	//
	plan := &Plan{arena, result.Main, pruned, CountUses(arena, result.Main), nil}
	plan.bindings = ScopeMultiuse(plan)
	//
	return plan, nil
}

// Uses returns the number of times a given root is used within the emitted
// expression.
func (p *Plan) Uses(id token.ID) int {
	return p.live[id]
}

// IsShared determines whether a given root is bound by name, rather than
// inlined.
func (p *Plan) IsShared(id token.ID) bool {
	return p.live[id] > 1
}

// Bindings returns the shared roots bound at a given let point, such that
// every binding comes after those it depends upon.
func (p *Plan) Bindings(letPoint token.ID) []token.ID {
	return p.bindings[letPoint]
}

// Position returns the first position of a given token.
func (p *Plan) Position(id token.ID) graph.Position {
	return p.Arena.Get(id).Blocks()[0]
}

// Inputs returns the inputs of a given construct root, in emission order.  The
// parameter types of a binder come before its result, whilst match arms are
// not inputs.
func Inputs(arena *token.Arena, id token.ID) []token.ID {
	var inputs []token.ID
	//
	switch t := arena.Get(id).(type) {
	case *token.Application:
		inputs = append(inputs, t.Applicand(), t.Argument())
	case *token.Match:
		inputs = append(inputs, t.Input())
	case token.Binder:
		for _, param := range t.Parameters() {
			if typ := arena.Parameter(param).Type(); typ != token.Nil {
				inputs = append(inputs, typ)
			}
		}
		//
		if t.Result() != token.Nil {
			inputs = append(inputs, t.Result())
		}
	}
	//
	return inputs
}

// Dependencies returns the roots directly used by a given root: the values of
// its inputs (other than parameters), its match arms, and the orphans anchored
// to its parameters.
func Dependencies(arena *token.Arena, id token.ID) []token.ID {
	var deps []token.ID
	//
	for _, in := range Inputs(arena, id) {
		if v := arena.Input(in).Value(); isRoot(arena, v) {
			deps = append(deps, v)
		}
	}
	//
	switch t := arena.Get(id).(type) {
	case *token.Match:
		deps = append(deps, t.Arms()...)
	case token.Binder:
		for _, param := range t.Parameters() {
			deps = append(deps, arena.Parameter(param).Anchors()...)
		}
	}
	//
	return deps
}

func isRoot(arena *token.Arena, id token.ID) bool {
	_, ok := arena.Root(id)
	return ok
}
