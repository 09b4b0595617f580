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
	"strings"

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/token"
	log "github.com/sirupsen/logrus"
)

// ScopeUnused anchors every unreferenced root which reads some parameter to
// the parameter at which everything it reads first becomes visible.  Anchored
// roots are emitted as unused bindings within the body of that parameter's
// binder.  Unreferenced roots which read no parameters are pruned, and
// returned.  A root which cannot be anchored anywhere is an error.
func ScopeUnused(arena *token.Arena, main token.ID, unreferenced []token.ID) ([]token.ID, error) {
	p := newUnused(arena, unreferenced)
	//
	for p.waiting > 0 {
		p.progress = false
		// Prefer anchoring within the definition itself.
		p.walk(main)
		// Then within other unreferenced roots.
		for _, id := range p.roots {
			if !p.anchored[id] && id != main {
				p.walk(id)
			}
		}
		//
		if !p.progress {
			return nil, p.unanchoredError()
		}
	}
	//
	return p.pruned(main), nil
}

// State of the orphan anchoring pass.
type unused struct {
	arena *token.Arena
	free  *FreeParams
	// Unreferenced roots, in position order.
	roots []token.ID
	// Parameters each waiting orphan still needs.
	needs map[token.ID]ParamSet
	// Waiting orphans needing a given parameter (the reverse of needs).
	edges map[token.ID][]token.ID
	// Orphans anchored so far.
	anchored map[token.ID]bool
	// Number of orphans still waiting.
	waiting int
	// Parameters visible at the current point of the walk.
	visible ParamSet
	// Shared roots already walked in this pass.
	walked   map[token.ID]bool
	progress bool
}

func newUnused(arena *token.Arena, unreferenced []token.ID) *unused {
	p := &unused{
		arena:    arena,
		free:     NewFreeParams(arena),
		roots:    slices.Clone(unreferenced),
		needs:    make(map[token.ID]ParamSet),
		edges:    make(map[token.ID][]token.ID),
		anchored: make(map[token.ID]bool),
	}
	// Position order ensures anchoring does not depend on visiting order.
	slices.SortFunc(p.roots, func(l, r token.ID) int {
		return arena.Get(l).Blocks()[0].Compare(arena.Get(r).Blocks()[0])
	})
	//
	for _, id := range p.roots {
		needs := p.free.Of(id)
		//
		if len(needs) == 0 {
			continue
		}
		//
		p.needs[id] = needs
		p.waiting++
		//
		for _, param := range needs.Sorted() {
			p.edges[param] = append(p.edges[param], id)
		}
		//
		log.Debugf("unreferenced root at %s needs parameters %s", arena.Get(id).Blocks()[0], needs)
	}
	//
	return p
}

// Walk the tree of a given root from scratch.
func (p *unused) walk(id token.ID) {
	p.visible = make(ParamSet)
	p.walked = make(map[token.ID]bool)
	p.walkRoot(id)
}

func (p *unused) walkRoot(id token.ID) {
	root, _ := p.arena.Root(id)
	// Shared roots may end up bound anywhere their free parameters are visible,
	// hence nothing else is assumed visible within them.
	if root.IncomingEdgeCount() > 1 {
		if p.walked[id] {
			return
		}
		//
		p.walked[id] = true
		saved := p.visible
		p.visible = p.restrict(p.free.Of(id))
		//
		defer func() { p.visible = saved }()
	}
	//
	switch t := root.(type) {
	case *token.Application:
		p.walkInput(t.Applicand())
		p.walkInput(t.Argument())
	case *token.Match:
		p.walkInput(t.Input())
		//
		for _, arm := range t.Arms() {
			p.walkRoot(arm)
		}
	case token.Binder:
		p.walkBinder(t)
	}
}

func (p *unused) walkInput(id token.ID) {
	// Parameters are leaves, since descending into them would cycle back to
	// their binder.
	if v := p.arena.Input(id).Value(); isRoot(p.arena, v) {
		p.walkRoot(v)
	}
}

func (p *unused) walkBinder(b token.Binder) {
	params := b.Parameters()
	//
	for _, param := range params {
		if typ := p.arena.Parameter(param).Type(); typ != token.Nil {
			p.walkInput(typ)
		}
		//
		p.visible[param] = struct{}{}
		p.anchorAt(param)
	}
	//
	for _, param := range params {
		for _, orphan := range p.arena.Parameter(param).Anchors() {
			p.walkRoot(orphan)
		}
	}
	//
	if b.Result() != token.Nil {
		p.walkInput(b.Result())
	}
	//
	for _, param := range params {
		delete(p.visible, param)
	}
}

// Anchor every waiting orphan whose needs are met once a given parameter is
// visible.  An orphan which uses the parameter's binder (directly or not)
// cannot be placed within it.
func (p *unused) anchorAt(param token.ID) {
	binder := p.arena.Parameter(param).Binder()
	//
	for _, orphan := range slices.Clone(p.edges[param]) {
		if !p.needs[orphan].SubsetOf(p.visible) {
			continue
		} else if p.reaches(orphan, binder) {
			log.Debugf("cannot anchor root at %s within its own dependency at %s", p.arena.Get(orphan).Blocks()[0],
				p.arena.Get(binder).Blocks()[0])
			//
			continue
		}
		//
		p.commit(orphan, param)
	}
}

// Determine whether a given root depends upon a target root, taking into
// account everything anchored so far.
func (p *unused) reaches(id token.ID, target token.ID) bool {
	var (
		stack = []token.ID{id}
		seen  = map[token.ID]bool{id: true}
	)
	//
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		//
		if next == target {
			return true
		}
		//
		for _, dep := range Dependencies(p.arena, next) {
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	//
	return false
}

func (p *unused) commit(orphan token.ID, param token.ID) {
	log.Debugf("anchoring root at %s to parameter at %s", p.arena.Get(orphan).Blocks()[0],
		p.arena.Get(param).Blocks()[0])
	//
	p.arena.AddAnchor(orphan, param)
	p.anchored[orphan] = true
	p.waiting--
	p.progress = true
	//
	for other := range p.needs[orphan] {
		i := slices.Index(p.edges[other], orphan)
		//
		if i < 0 {
			panic(fmt.Sprintf("inconsistent edges for parameter %d", other))
		}
		//
		p.edges[other] = slices.Delete(p.edges[other], i, i+1)
	}
	//
	delete(p.needs, orphan)
}

func (p *unused) restrict(params ParamSet) ParamSet {
	visible := make(ParamSet)
	//
	for param := range params {
		if p.visible.Contains(param) {
			visible[param] = struct{}{}
		}
	}
	//
	return visible
}

func (p *unused) pruned(main token.ID) []token.ID {
	var pruned []token.ID
	//
	for _, id := range p.roots {
		if !p.anchored[id] && id != main {
			pruned = append(pruned, id)
		}
	}
	//
	return pruned
}

func (p *unused) unanchoredError() error {
	var (
		positions []graph.Position
		names     []string
	)
	//
	for _, id := range p.roots {
		if _, ok := p.needs[id]; ok {
			pos := p.arena.Get(id).Blocks()[0]
			positions = append(positions, pos)
			names = append(names, pos.String())
		}
	}
	//
	msg := fmt.Sprintf("no parameter sees everything read by %s", strings.Join(names, ", "))
	//
	return token.NewFormatError(token.UnanchoredOrphan, msg, positions...)
}
