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
package synth

import (
	"math/rand"

	"github.com/consensys/go-termweave/pkg/graph"
)

// Ordering determines which pending position is visited next.  The engine's
// output does not depend on the ordering, which makes this a useful knob for
// testing.
type Ordering interface {
	// Next returns the index (in 0..n-1) of the pending item to visit next,
	// where items are listed in the order they were added.
	Next(n int) int
}

// LIFO visits the most recently added position first.
func LIFO() Ordering {
	return lifo{}
}

type lifo struct{}

func (lifo) Next(n int) int {
	return n - 1
}

// Shuffled visits pending positions in a pseudo-random order determined by a
// given seed.
func Shuffled(seed int64) Ordering {
	//nolint:gosec
	return &shuffled{rand.New(rand.NewSource(seed))}
}

type shuffled struct {
	rng *rand.Rand
}

func (p *shuffled) Next(n int) int {
	return p.rng.Intn(n)
}

// Worklist represents the positions still to be visited.  A position is on the
// worklist at most once.
type Worklist struct {
	ordering Ordering
	items    []graph.Position
	pending  map[graph.Position]struct{}
}

// NewWorklist returns an empty worklist using a given ordering.
func NewWorklist(ordering Ordering) *Worklist {
	return &Worklist{ordering, nil, make(map[graph.Position]struct{})}
}

// IsEmpty checks whether or not there are still positions on the worklist.
func (p *Worklist) IsEmpty() bool {
	return len(p.items) == 0
}

// Len returns the number of positions on the worklist.
func (p *Worklist) Len() uint {
	return uint(len(p.items))
}

// Contains checks whether a given position is on the worklist.
func (p *Worklist) Contains(pos graph.Position) bool {
	_, ok := p.pending[pos]
	return ok
}

// Items returns the positions on the worklist, in the order they were added.
func (p *Worklist) Items() []graph.Position {
	return p.items
}

// Push a position onto the worklist, unless it is already there.  Returns true
// if the position was added.
func (p *Worklist) Push(pos graph.Position) bool {
	if p.Contains(pos) {
		return false
	}
	//
	p.items = append(p.items, pos)
	p.pending[pos] = struct{}{}
	//
	return true
}

// Pop the next position off the worklist, as chosen by the ordering.
func (p *Worklist) Pop() graph.Position {
	var n = len(p.items)
	//
	if n == 0 {
		panic("cannot pop from empty worklist")
	}
	//
	i := p.ordering.Next(n)
	item := p.items[i]
	// Order of the remaining items only matters for LIFO, where i is always
	// the last item anyway.
	p.items[i] = p.items[n-1]
	p.items = p.items[:n-1]
	delete(p.pending, item)
	// Done
	return item
}
