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

	"github.com/consensys/go-termweave/pkg/token"
)

// ParamSet is a set of parameters.
type ParamSet map[token.ID]struct{}

// Contains checks whether a given parameter is in this set.
func (p ParamSet) Contains(id token.ID) bool {
	_, ok := p[id]
	return ok
}

// SubsetOf checks whether every parameter in this set is also in another.
func (p ParamSet) SubsetOf(other ParamSet) bool {
	for id := range p {
		if !other.Contains(id) {
			return false
		}
	}
	//
	return true
}

// Sorted returns the parameters of this set in ascending order.
func (p ParamSet) Sorted() []token.ID {
	ids := make([]token.ID, 0, len(p))
	//
	for id := range p {
		ids = append(ids, id)
	}
	//
	slices.Sort(ids)
	//
	return ids
}

func (p ParamSet) String() string {
	var parts []string
	//
	for _, id := range p.Sorted() {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(parts, ","))
}

// FreeParams computes, for each root on demand, the parameters it reads which
// are not bound within it.  Results are cached, hence this assumes the arena is
// acyclic and that no orphans are anchored whilst it is in use.
type FreeParams struct {
	arena *token.Arena
	cache map[token.ID]ParamSet
}

// NewFreeParams constructs an empty cache of free parameters.
func NewFreeParams(arena *token.Arena) *FreeParams {
	return &FreeParams{arena, make(map[token.ID]ParamSet)}
}

// Of returns the free parameters of a given root.
func (p *FreeParams) Of(id token.ID) ParamSet {
	if free, ok := p.cache[id]; ok {
		return free
	}
	//
	free := make(ParamSet)
	//
	for _, in := range Inputs(p.arena, id) {
		v := p.arena.Input(in).Value()
		//
		if _, ok := p.arena.Get(v).(*token.Parameter); ok {
			free[v] = struct{}{}
		} else {
			for param := range p.Of(v) {
				free[param] = struct{}{}
			}
		}
	}
	//
	switch t := p.arena.Get(id).(type) {
	case *token.Match:
		for _, arm := range t.Arms() {
			for param := range p.Of(arm) {
				free[param] = struct{}{}
			}
		}
	case token.Binder:
		for _, param := range t.Parameters() {
			delete(free, param)
		}
	}
	//
	p.cache[id] = free
	//
	return free
}
