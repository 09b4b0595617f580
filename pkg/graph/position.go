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
	"cmp"
	"fmt"
	"slices"
)

// Position identifies one port in the spatial graph.  Positions are plain
// values: they can be compared, hashed and ordered.
type Position struct {
	X int
	Y int
	Z int
}

// At constructs a position from its coordinates.
func At(x, y, z int) Position {
	return Position{x, y, z}
}

// Compare orders positions lexicographically on (X,Y,Z).
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.X, o.X); c != 0 {
		return c
	} else if c := cmp.Compare(p.Y, o.Y); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Z, o.Z)
}

// Less returns true if this position is ordered before another.
func (p Position) Less(o Position) bool {
	return p.Compare(o) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// SortPositions sorts a slice of positions in place, and returns it for
// convenience.
func SortPositions(positions []Position) []Position {
	slices.SortFunc(positions, Position.Compare)
	return positions
}
