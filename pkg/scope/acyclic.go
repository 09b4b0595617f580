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
	"github.com/consensys/go-termweave/pkg/token"
)

// CheckAcyclic ensures no construct depends (directly or indirectly) upon
// itself.  Reading a parameter does not count as a dependency on its binder.
func CheckAcyclic(arena *token.Arena) error {
	const (
		unseen = iota
		active
		done
	)
	//
	var (
		state = make(map[token.ID]int)
		stack []token.ID
		visit func(token.ID) error
	)
	//
	visit = func(id token.ID) error {
		switch state[id] {
		case done:
			return nil
		case active:
			return cycleError(arena, stack, id)
		}
		//
		state[id] = active
		stack = append(stack, id)
		//
		for _, dep := range Dependencies(arena, id) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		//
		stack = stack[:len(stack)-1]
		state[id] = done
		//
		return nil
	}
	//
	for _, tok := range arena.Tokens() {
		if _, ok := tok.(token.ConstructRoot); ok {
			if err := visit(tok.ID()); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

// Construct an error identifying every construct on the cycle closed by a given
// root.
func cycleError(arena *token.Arena, stack []token.ID, id token.ID) error {
	var positions []graph.Position
	//
	for i := len(stack) - 1; i >= 0; i-- {
		positions = append(positions, arena.Get(stack[i]).Blocks()[0])
		//
		if stack[i] == id {
			break
		}
	}
	//
	graph.SortPositions(positions)
	//
	return token.NewFormatError(token.Cycle, "construct depends on itself", positions...)
}
