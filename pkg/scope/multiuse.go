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
	"fmt"
	"slices"

	"github.com/consensys/go-termweave/pkg/token"
)

// CountUses determines how many times each root is used within the tree
// emitted for a given definition.  This differs from a root's incoming edge
// count when some of its uses are within pruned roots.
func CountUses(arena *token.Arena, main token.ID) map[token.ID]int {
	var (
		live = make(map[token.ID]int)
		use  func(token.ID)
	)
	//
	use = func(id token.ID) {
		live[id]++
		// Only descend on the first use.
		if live[id] > 1 {
			return
		}
		//
		for _, dep := range Dependencies(arena, id) {
			use(dep)
		}
	}
	//
	for _, dep := range Dependencies(arena, main) {
		use(dep)
	}
	//
	return live
}

// AnchorPoint collects the shared roots which become ready for binding within
// one let point.  Once a let point is finished, its anchor point is merged into
// that of the enclosing let point, so every shared root which was first used
// within it resolves to the innermost let point still open.
type AnchorPoint struct {
	// Representative of this anchor point, or nil if it is its own.
	parent *AnchorPoint
	// Let point this anchor point belongs to.
	letPoint token.ID
	// Shared roots whose last use has been seen, in order.
	ready []token.ID
}

// Find the representative of this anchor point, compressing the path taken.
func (p *AnchorPoint) Find() *AnchorPoint {
	if p.parent == nil {
		return p
	}
	//
	p.parent = p.parent.Find()
	//
	return p.parent
}

// Merge this (finished) anchor point into another.
func (p *AnchorPoint) Merge(into *AnchorPoint) {
	p.parent = into
}

// ScopeMultiuse determines the let point at which every shared root of a plan
// is bound.  Each shared root is bound at the innermost let point enclosing
// all of its uses, which is determined in a single walk of the tree (akin to
// Tarjan's offline lowest common ancestor algorithm).  The bindings at each
// let point are returned, ordered so that every binding precedes its uses.
func ScopeMultiuse(plan *Plan) map[token.ID][]token.ID {
	p := &multiuse{
		plan:     plan,
		visits:   make(map[token.ID]int),
		first:    make(map[token.ID]*AnchorPoint),
		bindings: make(map[token.ID][]token.ID),
	}
	//
	p.letPoint(Definition, func() { p.walkRoot(plan.Main) })
	//
	if len(p.first) != 0 {
		panic(fmt.Sprintf("%d shared roots never bound", len(p.first)))
	}
	//
	return p.bindings
}

type multiuse struct {
	plan *Plan
	// Current anchor point
	current *AnchorPoint
	// Number of uses seen so far of each shared root.
	visits map[token.ID]int
	// Anchor point current at the first use of each shared root.
	first    map[token.ID]*AnchorPoint
	bindings map[token.ID][]token.ID
}

// Walk the body of a let point.  Shared roots which became ready within it are
// walked afterwards, as their bindings are emitted at this let point.
func (p *multiuse) letPoint(id token.ID, body func()) {
	var (
		anchor = &AnchorPoint{letPoint: id}
		outer  = p.current
	)
	//
	p.current = anchor
	body()
	// Walking a ready root can make more roots ready.
	for i := 0; i < len(anchor.ready); i++ {
		p.walkRoot(anchor.ready[i])
	}
	// Bind dependencies first
	bindings := slices.Clone(anchor.ready)
	slices.Reverse(bindings)
	//
	if len(bindings) > 0 {
		p.bindings[id] = bindings
	}
	//
	if outer != nil {
		anchor.Merge(outer)
	}
	//
	p.current = outer
}

// Record a use of a given root.
func (p *multiuse) use(id token.ID) {
	uses := p.plan.Uses(id)
	//
	if uses <= 1 {
		p.walkRoot(id)
		return
	}
	//
	p.visits[id]++
	//
	if p.visits[id] == 1 {
		p.first[id] = p.current
	}
	//
	if p.visits[id] == uses {
		anchor := p.first[id].Find()
		anchor.ready = append(anchor.ready, id)
		delete(p.first, id)
	}
}

func (p *multiuse) walkRoot(id token.ID) {
	arena := p.plan.Arena
	//
	switch t := arena.Get(id).(type) {
	case *token.Application:
		p.useInput(t.Applicand())
		p.useInput(t.Argument())
	case *token.Match:
		p.useInput(t.Input())
		//
		for _, arm := range t.Arms() {
			p.use(arm)
		}
	case token.Binder:
		p.walkBinder(id, t, 0)
	}
}

// Walk the parameters of a binder from a given index onwards, followed by its
// body.  The type of the first parameter lies outside the binder altogether.
// Every other parameter type lies within the let point following the parameter
// before it, so constructs shared between types can read earlier parameters.
func (p *multiuse) walkBinder(id token.ID, b token.Binder, index int) {
	var (
		arena  = p.plan.Arena
		params = b.Parameters()
	)
	//
	if index < len(params) {
		if typ := arena.Parameter(params[index]).Type(); typ != token.Nil {
			p.useInput(typ)
		}
		//
		if _, ok := b.(*token.CaseArm); !ok && index+1 < len(params) {
			p.letPoint(params[index], func() { p.walkBinder(id, b, index+1) })
			return
		} else if index+1 < len(params) {
			p.walkBinder(id, b, index+1)
			return
		}
	}
	//
	p.letPoint(id, func() {
		for _, param := range params {
			for _, orphan := range arena.Parameter(param).Anchors() {
				p.use(orphan)
			}
		}
		//
		p.useInput(b.Result())
	})
}

func (p *multiuse) useInput(id token.ID) {
	if v := p.plan.Arena.Input(id).Value(); isRoot(p.plan.Arena, v) {
		p.use(v)
	}
}
