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
	"path"
	"testing"

	"github.com/consensys/go-termweave/pkg/construct"
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/synth"
	"github.com/consensys/go-termweave/pkg/token"
	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Determines the (relative) location of the graph fixtures.
const TestDir = "../../testdata/graphs"

func TestAssign_01(t *testing.T) {
	result := synthesise(t, "valid", "shared", synth.LIFO())
	arena := result.Arena
	// Shared construct has two uses when placed
	shared := rootAt(t, arena, graph.At(6, 0, 0))
	orphan := rootAt(t, arena, graph.At(8, 0, 0))
	require.Equal(t, 2, shared.IncomingEdgeCount())
	require.Equal(t, 0, orphan.IncomingEdgeCount())
	//
	plan, err := Assign(result)
	require.NoError(t, err)
	// Bound at the function's body, and nowhere else
	fn := arena.Get(plan.Main).(*token.Function)
	require.Equal(t, []token.ID{shared.ID()}, plan.Bindings(fn.ID()))
	require.Empty(t, plan.Bindings(Definition))
	require.True(t, plan.IsShared(shared.ID()))
	require.Equal(t, 2, plan.Uses(shared.ID()))
	require.Equal(t, 2, shared.IncomingEdgeCount())
	// Orphan anchored under the parameter
	param := fn.Parameters()[0]
	require.Equal(t, []token.ID{orphan.ID()}, arena.Parameter(param).Anchors())
	require.Equal(t, param, orphan.Anchor())
	require.Equal(t, 1, orphan.IncomingEdgeCount())
	require.False(t, plan.IsShared(orphan.ID()))
	require.Empty(t, plan.Pruned)
}

func TestAssign_02(t *testing.T) {
	result := synthesise(t, "valid", "twice", synth.LIFO())
	shared := rootAt(t, result.Arena, graph.At(2, 0, 0))
	//
	plan, err := Assign(result)
	require.NoError(t, err)
	require.Equal(t, []token.ID{shared.ID()}, plan.Bindings(Definition))
}

func TestAssign_03(t *testing.T) {
	result := synthesise(t, "valid", "chain", synth.LIFO())
	arena := result.Arena
	require.Len(t, result.Unreferenced, 2)
	//
	plan, err := Assign(result)
	require.NoError(t, err)
	// Inner orphan is anchored within the outer one
	outer := rootAt(t, arena, graph.At(3, 0, 0)).(*token.Function)
	inner := rootAt(t, arena, graph.At(8, 0, 0))
	main := arena.Get(plan.Main).(*token.Function)
	//
	require.Equal(t, main.Parameters()[0], outer.Anchor())
	require.Equal(t, outer.Parameters()[0], inner.Anchor())
	require.Equal(t, 1, plan.Uses(outer.ID()))
	require.Equal(t, 1, plan.Uses(inner.ID()))
}

func TestAssign_04(t *testing.T) {
	// Unused application reading no parameters is pruned, and its use of a
	// constant does not make that constant shared.
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Application, graph.At(0, 0, 0), graph.At(0, 1, 0), graph.At(0, 2, 0))
	check_Add(t, g, graph.Application, graph.At(1, 0, 0), graph.At(1, 1, 0), graph.At(1, 2, 0))
	require.NoError(t, g.Add(graph.Constant, "S", map[graph.Role]graph.Position{graph.RoleOutput: graph.At(2, 0, 0)}))
	require.NoError(t, g.Add(graph.Constant, "f", map[graph.Role]graph.Position{graph.RoleOutput: graph.At(3, 0, 0)}))
	require.NoError(t, g.Add(graph.Constant, "O", map[graph.Role]graph.Position{graph.RoleOutput: graph.At(4, 0, 0)}))
	require.NoError(t, g.Link(graph.At(2, 0, 0), graph.At(0, 1, 0)))
	require.NoError(t, g.Link(graph.At(4, 0, 0), graph.At(0, 2, 0)))
	require.NoError(t, g.Link(graph.At(3, 0, 0), graph.At(1, 1, 0)))
	require.NoError(t, g.Link(graph.At(4, 0, 0), graph.At(1, 2, 0)))
	//
	e := synth.NewEmitter(g, construct.Emit)
	_, err := e.Process(graph.At(0, 0, 0))
	require.NoError(t, err)
	//
	result := e.Result()
	zero := rootAt(t, result.Arena, graph.At(4, 0, 0))
	unused := rootAt(t, result.Arena, graph.At(1, 0, 0))
	require.Equal(t, 2, zero.IncomingEdgeCount())
	//
	plan, err := Assign(result)
	require.NoError(t, err)
	require.Equal(t, []token.ID{unused.ID()}, plan.Pruned)
	require.Equal(t, 1, plan.Uses(zero.ID()))
	require.False(t, plan.IsShared(zero.ID()))
	require.Empty(t, plan.Bindings(Definition))
}

func TestAssign_05(t *testing.T) {
	// Placement does not depend on visiting order
	for _, name := range []string{"shared", "twice", "chain", "pred", "dependent"} {
		expected := check_Placement(t, synthesise(t, "valid", name, synth.LIFO()))
		//
		for seed := int64(0); seed < 10; seed++ {
			actual := check_Placement(t, synthesise(t, "valid", name, synth.Shuffled(seed)))
			//
			if diff := pretty.Compare(expected, actual); diff != "" {
				t.Fatalf("placement of %s differs for seed %d:\n%s", name, seed, diff)
			}
		}
	}
}

func TestAssign_06(t *testing.T) {
	// Shared type reading the first parameter is bound just after it, rather
	// than outside the function.
	result := synthesise(t, "valid", "dependent", synth.LIFO())
	arena := result.Arena
	//
	plan, err := Assign(result)
	require.NoError(t, err)
	//
	fn := arena.Get(plan.Main).(*token.Function)
	params := fn.Parameters()
	list := rootAt(t, arena, graph.At(4, 0, 0))
	//
	require.Len(t, params, 3)
	require.Equal(t, 2, plan.Uses(list.ID()))
	require.Equal(t, []token.ID{list.ID()}, plan.Bindings(params[0]))
	require.Empty(t, plan.Bindings(params[1]))
	require.Empty(t, plan.Bindings(fn.ID()))
	require.Empty(t, plan.Bindings(Definition))
}

func TestAssign_Invalid_01(t *testing.T) {
	_, err := Assign(synthesise(t, "invalid", "cycle", synth.LIFO()))
	check_FormatError(t, token.Cycle, err)
}

func TestAssign_Invalid_02(t *testing.T) {
	// Terminates, having anchored nothing.
	_, err := Assign(synthesise(t, "invalid", "unanchored", synth.LIFO()))
	check_FormatError(t, token.UnanchoredOrphan, err)
	//
	var ferr *token.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, []graph.Position{graph.At(5, 0, 0)}, ferr.Positions)
}

func TestAssign_Invalid_03(t *testing.T) {
	// Orphan reading both a function and its parameter cannot be placed
	// within that function.
	for seed := int64(-1); seed < 10; seed++ {
		ordering := synth.LIFO()
		if seed >= 0 {
			ordering = synth.Shuffled(seed)
		}
		//
		result := synthesise(t, "invalid", "self_anchor", ordering)
		orphan := rootAt(t, result.Arena, graph.At(3, 0, 0))
		//
		_, err := Assign(result)
		check_FormatError(t, token.UnanchoredOrphan, err)
		require.Equal(t, token.Nil, orphan.Anchor())
	}
}

func TestAnchorPoint_01(t *testing.T) {
	var (
		root   = &AnchorPoint{letPoint: Definition}
		middle = &AnchorPoint{letPoint: 1}
		leaf   = &AnchorPoint{letPoint: 2}
	)
	//
	require.Same(t, leaf, leaf.Find())
	leaf.Merge(middle)
	middle.Merge(root)
	require.Same(t, root, leaf.Find())
	// Path compressed
	require.Same(t, root, leaf.parent)
}

// ===================================================================
// Test Helpers
// ===================================================================

// Placement of every construct, identified by position.
type placement struct {
	Bindings map[string][]string
	Anchors  map[string]string
	Uses     map[string]int
}

func check_Placement(t *testing.T, result synth.Result) placement {
	plan, err := Assign(result)
	require.NoError(t, err)
	//
	var (
		arena = result.Arena
		p     = placement{make(map[string][]string), make(map[string]string), make(map[string]int)}
	)
	//
	for _, tok := range arena.Tokens() {
		if _, ok := tok.(*token.Parameter); ok {
			for _, id := range plan.Bindings(tok.ID()) {
				key := "parameter" + tok.Blocks()[0].String()
				p.Bindings[key] = append(p.Bindings[key], plan.Position(id).String())
			}
		}
		//
		root, ok := tok.(token.ConstructRoot)
		if !ok {
			continue
		}
		//
		pos := root.Blocks()[0].String()
		p.Uses[pos] = plan.Uses(root.ID())
		//
		if root.Anchor() != token.Nil {
			p.Anchors[pos] = plan.Position(root.Anchor()).String()
		}
		//
		for _, id := range plan.Bindings(root.ID()) {
			p.Bindings[pos] = append(p.Bindings[pos], plan.Position(id).String())
		}
	}
	//
	for _, id := range plan.Bindings(Definition) {
		p.Bindings["definition"] = append(p.Bindings["definition"], plan.Position(id).String())
	}
	//
	return p
}

func synthesise(t *testing.T, dir string, name string, ordering synth.Ordering) synth.Result {
	filename := path.Join(TestDir, dir, name+".yaml")
	fixture, err := graph.Load(afero.NewOsFs(), filename, graph.NewTemplateCache())
	require.NoError(t, err)
	//
	e := synth.NewEmitter(fixture.Graph, construct.Emit, synth.WithOrdering(ordering))
	_, err = e.Process(fixture.Start)
	require.NoError(t, err)
	//
	return e.Result()
}

func check_Add(t *testing.T, g *graph.Static, kind graph.Kind, output, applicand, argument graph.Position) {
	ports := map[graph.Role]graph.Position{
		graph.RoleOutput:    output,
		graph.RoleApplicand: applicand,
		graph.RoleArgument:  argument,
	}
	//
	require.NoError(t, g.Add(kind, "", ports))
}

func rootAt(t *testing.T, arena *token.Arena, pos graph.Position) token.ConstructRoot {
	for _, tok := range arena.Tokens() {
		if root, ok := tok.(token.ConstructRoot); ok && root.Blocks()[0] == pos {
			return root
		}
	}
	//
	t.Fatalf("no construct at %s", pos)
	//
	return nil
}

func check_FormatError(t *testing.T, code string, err error) {
	var ferr *token.FormatError
	//
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, code, ferr.Code, ferr.Error())
}
