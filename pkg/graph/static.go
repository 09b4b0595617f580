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
package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Static is an in-memory accessor over a fixed graph.  Connectivity is given
// explicitly as links from sources to sinks, with the reverse direction
// computed on demand.
type Static struct {
	templates *TemplateCache
	// Block at each occupied position.
	blocks map[Position]*Block
	// Upstream source of every linked sink.
	sources map[Position]Position
	// Downstream sinks of every linked source.
	sinks map[Position][]Position
}

// NewStatic constructs an empty graph whose blocks are checked against the
// given templates.
func NewStatic(templates *TemplateCache) *Static {
	return &Static{
		templates,
		make(map[Position]*Block),
		make(map[Position]Position),
		make(map[Position][]Position),
	}
}

// Add places a construct whose ports occupy the given positions.
func (p *Static) Add(kind Kind, literal string, ports map[Role]Position) error {
	if err := p.templates.Check(kind, ports); err != nil {
		return err
	}
	//
	for role, pos := range ports {
		if _, ok := p.blocks[pos]; ok {
			return fmt.Errorf("position %s already occupied", pos)
		}
		//
		p.blocks[pos] = &Block{kind, role, ports, literal}
	}
	//
	return nil
}

// Link connects a sink to its upstream source.  A sink has at most one
// source.
func (p *Static) Link(source, sink Position) error {
	if s, ok := p.sources[sink]; ok {
		return fmt.Errorf("position %s already linked to %s", sink, s)
	} else if source == sink {
		return fmt.Errorf("position %s cannot be linked to itself", sink)
	}
	//
	p.sources[sink] = source
	p.sinks[source] = append(p.sinks[source], sink)
	//
	return nil
}

// Positions returns every occupied position, in position order.
func (p *Static) Positions() []Position {
	return SortPositions(slices.Collect(maps.Keys(p.blocks)))
}

// GetBlock implementation for Accessor interface.
func (p *Static) GetBlock(pos Position) (Block, bool) {
	if b, ok := p.blocks[pos]; ok {
		return *b, true
	}
	//
	return Block{}, false
}

// GetNode implementation for Accessor interface.
func (p *Static) GetNode(pos Position) Node {
	var node Node
	//
	if b, ok := p.blocks[pos]; ok {
		_, isSource := SourceNetwork(b.Role)
		node.IsSource = isSource || b.Role == RoleForward
	}
	//
	if src, ok := p.sources[pos]; ok {
		node.Source = &src
	}
	//
	node.Sinks = SortPositions(slices.Clone(p.sinks[pos]))
	node.Connected = node.Source != nil || len(node.Sinks) > 0
	//
	return node
}
