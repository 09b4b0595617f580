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
	"errors"
	"testing"

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/stretchr/testify/require"
)

func TestRefs_01(t *testing.T) {
	arena := NewArena()
	c := arena.NewConstant(graph.At(0, 0, 0), "O")
	//
	c.AddRef(graph.At(2, 0, 0))
	c.AddRef(graph.At(1, 0, 0))
	require.Equal(t, 2, c.PendingRef())
	require.Equal(t, []graph.Position{graph.At(1, 0, 0), graph.At(2, 0, 0)}, c.PendingRefLocations())
	//
	require.False(t, c.ReleaseRef(graph.At(2, 0, 0)))
	require.True(t, c.ReleaseRef(graph.At(1, 0, 0)))
	require.Equal(t, 0, c.PendingRef())
}

func TestRefs_02(t *testing.T) {
	arena := NewArena()
	c := arena.NewConstant(graph.At(0, 0, 0), "O")
	//
	c.AddRef(graph.At(1, 0, 0))
	require.Panics(t, func() { c.AddRef(graph.At(1, 0, 0)) })
	require.Panics(t, func() { c.ReleaseRef(graph.At(2, 0, 0)) })
}

func TestArena_01(t *testing.T) {
	arena := NewArena()
	app := arena.NewApplication(graph.At(0, 0, 0), graph.At(1, 0, 0), graph.At(2, 0, 0))
	f := arena.NewConstant(graph.At(3, 0, 0), "S")
	x := arena.NewConstant(graph.At(4, 0, 0), "O")
	//
	require.NoError(t, arena.AddSink(f.ID(), app.Applicand()))
	require.NoError(t, arena.AddSink(x.ID(), app.Argument()))
	//
	children := app.Children()
	require.Len(t, children, 2)
	require.Equal(t, "applicand", children[0].Name)
	require.Equal(t, "argument", children[1].Name)
	require.Equal(t, f.ID(), arena.Input(children[0].Token).Value())
	require.Equal(t, x.ID(), arena.Input(children[1].Token).Value())
	require.Equal(t, 1, f.IncomingEdgeCount())
	require.Equal(t, app.ID(), arena.Input(app.Argument()).Construct())
}

func TestArena_02(t *testing.T) {
	arena := NewArena()
	app := arena.NewApplication(graph.At(0, 0, 0), graph.At(1, 0, 0), graph.At(2, 0, 0))
	f := arena.NewConstant(graph.At(3, 0, 0), "S")
	g := arena.NewConstant(graph.At(4, 0, 0), "O")
	//
	require.NoError(t, arena.AddSink(f.ID(), app.Applicand()))
	checkFormatError(t, ConflictingSources, arena.AddSink(g.ID(), app.Applicand()))
	require.Equal(t, 0, g.IncomingEdgeCount())
}

func TestArena_03(t *testing.T) {
	arena := NewArena()
	fn := arena.NewFunction(graph.At(0, 0, 0))
	x := arena.NewParameter(graph.At(2, 0, 0), "x")
	y := arena.NewParameter(graph.At(1, 0, 0), "y")
	r1 := arena.NewTermInput(graph.At(3, 0, 0), "result", Nil)
	r2 := arena.NewTermInput(graph.At(4, 0, 0), "result", Nil)
	//
	require.NoError(t, arena.AddParameter(fn.ID(), x.ID()))
	require.NoError(t, arena.AddParameter(fn.ID(), y.ID()))
	require.NoError(t, arena.SetResult(fn.ID(), r1.ID()))
	checkFormatError(t, AlreadyHasResult, arena.SetResult(fn.ID(), r2.ID()))
	// Parameters kept in position order
	require.Equal(t, []ID{y.ID(), x.ID()}, fn.Parameters())
	require.Equal(t, fn.ID(), x.Construct())
	require.Equal(t, fn.ID(), r1.Construct())
	// Parameters can supply inputs
	require.NoError(t, arena.AddSink(x.ID(), r1.ID()))
	require.True(t, x.HasSinks())
	require.Equal(t, 0, fn.IncomingEdgeCount())
}

func TestArena_04(t *testing.T) {
	arena := NewArena()
	m := arena.NewMatch(graph.At(0, 0, 0), graph.At(0, 1, 0))
	a := arena.NewCaseArm(graph.At(1, 0, 0), "O")
	b := arena.NewCaseArm(graph.At(2, 0, 0), "O")
	c := arena.NewConstant(graph.At(3, 0, 0), "O")
	//
	require.Equal(t, []graph.Position{graph.At(0, 0, 0), graph.At(0, 1, 0)}, m.Blocks())
	require.NoError(t, arena.AddArm(m.ID(), a.ID()))
	checkFormatError(t, DuplicateCase, arena.AddArm(m.ID(), b.ID()))
	checkFormatError(t, NotABinder, arena.AddArm(c.ID(), b.ID()))
	checkFormatError(t, NotABinder, arena.AddParameter(c.ID(), arena.NewParameter(graph.At(5, 0, 0), "").ID()))
	// case arms are not terms
	in := arena.NewTermInput(graph.At(6, 0, 0), "result", Nil)
	checkFormatError(t, NotATerm, arena.AddSink(a.ID(), in.ID()))
	require.Equal(t, 1, a.IncomingEdgeCount())
}

func TestArena_05(t *testing.T) {
	arena := NewArena()
	x := arena.NewParameter(graph.At(0, 0, 0), "x")
	c := arena.NewConstant(graph.At(1, 0, 0), "O")
	//
	arena.AddAnchor(c.ID(), x.ID())
	require.Equal(t, 1, c.IncomingEdgeCount())
	require.Equal(t, x.ID(), c.Anchor())
	require.Equal(t, []Child{{"anchor", c.ID()}}, x.Children())
	require.Panics(t, func() { arena.AddAnchor(c.ID(), x.ID()) })
}

func TestFormatError_01(t *testing.T) {
	err := NewFormatError(AlreadyHasResult, "binder already has a result", graph.At(1, 2, 3), graph.At(0, 0, 0))
	require.Equal(t, "already-has-result: binder already has a result at (1,2,3), (0,0,0)", err.Error())
}

func TestDot_01(t *testing.T) {
	arena := NewArena()
	app := arena.NewApplication(graph.At(0, 0, 0), graph.At(1, 0, 0), graph.At(2, 0, 0))
	//
	dot := arena.Dot()
	require.Contains(t, dot, "digraph tokens {")
	require.Contains(t, dot, "t1 -> t2 [label=\"applicand\"];")
	require.Equal(t, app.ID(), ID(1))
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkFormatError(t *testing.T, code string, err error) {
	var ferr *FormatError
	//
	require.Error(t, err)
	require.True(t, errors.As(err, &ferr), "expected format error, got %v", err)
	require.Equal(t, code, ferr.Code)
	require.NotEmpty(t, ferr.Positions)
}
