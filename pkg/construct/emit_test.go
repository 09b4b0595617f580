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
package construct

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"testing"

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/synth"
	"github.com/consensys/go-termweave/pkg/token"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Determines the (relative) location of the graph fixtures.
const TestDir = "../../testdata/graphs"

// ===================================================================
// Valid Graphs
// ===================================================================

func TestEmit_01(t *testing.T) {
	fixture := load(t, "valid", "zero")
	result := check_Process(t, fixture, synth.LIFO())
	//
	root := result.Arena.Get(result.Main).(*token.Constant)
	require.Equal(t, "O", root.Literal())
	require.Empty(t, root.Children())
	require.Equal(t, []graph.Position{graph.At(1, 0, 0)}, root.TermConnectors())
	require.Empty(t, result.Unreferenced)
}

func TestEmit_02(t *testing.T) {
	fixture := load(t, "valid", "one")
	result := check_Process(t, fixture, synth.LIFO())
	//
	app := result.Arena.Get(result.Main).(*token.Application)
	children := app.Children()
	require.Len(t, children, 2)
	require.Equal(t, "applicand", children[0].Name)
	require.Equal(t, "argument", children[1].Name)
	//
	for i, literal := range []string{"S", "O"} {
		input := result.Arena.Input(children[i].Token)
		c := result.Arena.Get(input.Value()).(*token.Constant)
		require.Equal(t, literal, c.Literal())
		require.Equal(t, 1, c.IncomingEdgeCount())
	}
}

func TestEmit_03(t *testing.T) {
	fixture := load(t, "valid", "shared")
	result := check_Process(t, fixture, synth.LIFO())
	arena := result.Arena
	//
	fn := arena.Get(result.Main).(*token.Function)
	require.Len(t, fn.Parameters(), 1)
	// Shared construct has two uses
	shared := rootAt(t, arena, graph.At(6, 0, 0))
	require.Equal(t, 2, shared.IncomingEdgeCount())
	// Unused application is reported as unreferenced
	require.Len(t, result.Unreferenced, 1)
	orphan, _ := arena.Root(result.Unreferenced[0])
	require.Equal(t, graph.Application, orphan.Kind())
	require.Equal(t, graph.At(8, 0, 0), orphan.Blocks()[0])
	require.Equal(t, 0, orphan.IncomingEdgeCount())
	// Parameter read by both applications
	param := arena.Parameter(fn.Parameters()[0])
	require.Equal(t, "x", param.Name())
	require.Len(t, param.Sinks(), 2)
	require.NotEqual(t, token.Nil, param.Type())
}

func TestEmit_04(t *testing.T) {
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Match, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleInput, graph.At(0, 1, 0),
		graph.RoleScope, graph.At(0, 2, 0))
	check_Add(t, g, graph.Constant, "v", graph.RoleOutput, graph.At(1, 0, 0))
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	//
	result := check_Process(t, &graph.Fixture{Name: "m", Start: graph.At(0, 0, 0), Graph: g}, synth.LIFO())
	m := result.Arena.Get(result.Main).(*token.Match)
	//
	require.Empty(t, m.Arms())
	require.Len(t, m.Children(), 1)
	require.Equal(t, "input", m.Children()[0].Name)
	require.Equal(t, []graph.Position{graph.At(0, 0, 0), graph.At(0, 1, 0), graph.At(0, 2, 0)}, m.Blocks())
}

func TestEmit_05(t *testing.T) {
	fixture := load(t, "valid", "pred")
	result := check_Process(t, fixture, synth.LIFO())
	arena := result.Arena
	//
	m := rootAt(t, arena, graph.At(3, 0, 0)).(*token.Match)
	require.Len(t, m.Arms(), 2)
	//
	zero := arena.Get(m.Arms()[0]).(*token.CaseArm)
	succ := arena.Get(m.Arms()[1]).(*token.CaseArm)
	require.Equal(t, "O", zero.Constructor())
	require.Equal(t, "S", succ.Constructor())
	require.Empty(t, zero.Parameters())
	require.Len(t, succ.Parameters(), 1)
	require.Equal(t, m.ID(), succ.Match())
	require.Equal(t, 1, succ.IncomingEdgeCount())
	// Arms are attached along the scope network
	require.ElementsMatch(t, []graph.Position{graph.At(4, 0, 0), graph.At(5, 0, 0)}, m.ScopeConnectors())
}

func TestEmit_06(t *testing.T) {
	fixture := load(t, "valid", "two")
	result := check_Process(t, fixture, synth.LIFO())
	arena := result.Arena
	//
	inner := rootAt(t, arena, graph.At(1, 0, 0))
	require.Equal(t, 1, inner.IncomingEdgeCount())
	// Forward and argument both connect to the inner application
	require.ElementsMatch(t, []graph.Position{graph.At(4, 0, 0), graph.At(0, 2, 0)}, inner.TermConnectors())
	// Tap observes the outer one
	outer := arena.Get(result.Main)
	require.Equal(t, []graph.Position{graph.At(5, 0, 0)}, outer.TermConnectors())
}

func TestEmit_07(t *testing.T) {
	// Output is independent of visiting order
	for _, name := range []string{"zero", "one", "identity", "shared", "absurd", "pred", "refl", "two", "twice", "shadow", "dependent"} {
		fixture := load(t, "valid", name)
		expected := check_Process(t, fixture, synth.LIFO())
		//
		for seed := int64(0); seed < 20; seed++ {
			actual := check_Process(t, fixture, synth.Shuffled(seed))
			require.Equal(t, shape(expected.Arena, expected.Main), shape(actual.Arena, actual.Main), name)
			require.Equal(t, shapes(expected), shapes(actual), name)
		}
	}
}

func TestEmit_08(t *testing.T) {
	// Argument relayed through a chain of forwards
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Application, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleApplicand, graph.At(0, 1, 0),
		graph.RoleArgument, graph.At(0, 2, 0))
	check_Add(t, g, graph.Constant, "S", graph.RoleOutput, graph.At(1, 0, 0))
	check_Add(t, g, graph.Constant, "O", graph.RoleOutput, graph.At(2, 0, 0))
	check_Add(t, g, graph.ScopePort, "", graph.RoleForward, graph.At(3, 0, 0))
	check_Add(t, g, graph.ScopePort, "", graph.RoleForward, graph.At(4, 0, 0))
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	require.NoError(t, g.Link(graph.At(2, 0, 0), graph.At(3, 0, 0)))
	require.NoError(t, g.Link(graph.At(3, 0, 0), graph.At(4, 0, 0)))
	require.NoError(t, g.Link(graph.At(4, 0, 0), graph.At(0, 2, 0)))
	//
	fixture := &graph.Fixture{Name: "relay", Start: graph.At(0, 0, 0), Graph: g}
	expected := "application(0,0,0){applicand=constant(1,0,0){} argument=constant(2,0,0){}}"
	//
	for seed := int64(-1); seed < 20; seed++ {
		ordering := synth.LIFO()
		if seed >= 0 {
			ordering = synth.Shuffled(seed)
		}
		//
		result := check_Process(t, fixture, ordering)
		require.Equal(t, expected, shape(result.Arena, result.Main))
		//
		relayed := rootAt(t, result.Arena, graph.At(2, 0, 0))
		require.ElementsMatch(t, []graph.Position{graph.At(3, 0, 0), graph.At(4, 0, 0), graph.At(0, 2, 0)},
			relayed.TermConnectors())
	}
}

// ===================================================================
// Invalid Graphs
// ===================================================================

func TestEmit_Invalid_01(t *testing.T) {
	check_Invalid(t, "two_results", token.AlreadyHasResult)
}

func TestEmit_Invalid_02(t *testing.T) {
	check_Invalid(t, "missing_operand", token.MissingOperand)
}

func TestEmit_Invalid_03(t *testing.T) {
	check_Invalid(t, "missing_result", token.MissingResult)
}

func TestEmit_Invalid_04(t *testing.T) {
	// Scope network feeding a term input
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Application, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleApplicand, graph.At(0, 1, 0),
		graph.RoleArgument, graph.At(0, 2, 0))
	check_Add(t, g, graph.Function, "", graph.RoleOutput, graph.At(1, 0, 0), graph.RoleScope, graph.At(1, 1, 0))
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	require.NoError(t, g.Link(graph.At(1, 1, 0), graph.At(0, 2, 0)))
	//
	check_InvalidGraph(t, g, token.WrongNetwork)
}

func TestEmit_Invalid_05(t *testing.T) {
	// Application consuming its own output
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Application, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleApplicand, graph.At(0, 1, 0),
		graph.RoleArgument, graph.At(0, 2, 0))
	check_Add(t, g, graph.Constant, "f", graph.RoleOutput, graph.At(1, 0, 0))
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	require.NoError(t, g.Link(graph.At(0, 0, 0), graph.At(0, 2, 0)))
	//
	check_InvalidGraph(t, g, token.Cycle)
}

func TestEmit_Invalid_06(t *testing.T) {
	// Function without parameters
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Function, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleScope, graph.At(0, 1, 0))
	check_Add(t, g, graph.ScopePort, "", graph.RoleResultScope, graph.At(1, 0, 0), graph.RoleResult, graph.At(1, 1, 0))
	check_Add(t, g, graph.Constant, "O", graph.RoleOutput, graph.At(2, 0, 0))
	require.NoError(t, g.Link(graph.At(0, 1, 0), graph.At(1, 0, 0)))
	require.NoError(t, g.Link(graph.At(2, 0, 0), graph.At(1, 1, 0)))
	//
	check_InvalidGraph(t, g, token.MissingParameter)
}

func TestEmit_Invalid_07(t *testing.T) {
	// Parameter not bound by any binder
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Application, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleApplicand, graph.At(0, 1, 0),
		graph.RoleArgument, graph.At(0, 2, 0))
	check_Add(t, g, graph.Constant, "f", graph.RoleOutput, graph.At(1, 0, 0))
	check_Add(t, g, graph.ScopePort, "x", graph.RoleParameter, graph.At(2, 0, 0))
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	require.NoError(t, g.Link(graph.At(2, 0, 0), graph.At(0, 2, 0)))
	//
	check_InvalidGraph(t, g, token.MalformedConstruct)
}

func TestEmit_Invalid_08(t *testing.T) {
	// Two arms for the same constructor
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Match, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleInput, graph.At(0, 1, 0),
		graph.RoleScope, graph.At(0, 2, 0))
	check_Add(t, g, graph.Constant, "v", graph.RoleOutput, graph.At(1, 0, 0))
	//
	for i := 2; i <= 3; i++ {
		check_Add(t, g, graph.CaseArm, "C", graph.RoleArm, graph.At(i, 0, 0))
		check_Add(t, g, graph.ScopePort, "", graph.RoleResultScope, graph.At(i, 1, 0), graph.RoleResult, graph.At(i, 2, 0))
		require.NoError(t, g.Link(graph.At(0, 2, 0), graph.At(i, 0, 0)))
		require.NoError(t, g.Link(graph.At(i, 0, 0), graph.At(i, 1, 0)))
		require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(i, 2, 0)))
	}
	//
	require.NoError(t, g.Link(graph.At(1, 0, 0), graph.At(0, 1, 0)))
	//
	check_InvalidGraph(t, g, token.DuplicateCase)
}

func TestEmit_Invalid_09(t *testing.T) {
	// Case arm attached to a function
	g := graph.NewStatic(graph.NewTemplateCache())
	check_Add(t, g, graph.Function, "", graph.RoleOutput, graph.At(0, 0, 0), graph.RoleScope, graph.At(0, 1, 0))
	check_Add(t, g, graph.CaseArm, "C", graph.RoleArm, graph.At(1, 0, 0))
	require.NoError(t, g.Link(graph.At(0, 1, 0), graph.At(1, 0, 0)))
	//
	check_InvalidGraph(t, g, token.NotABinder)
}

// ===================================================================
// Test Helpers
// ===================================================================

func load(t *testing.T, dir string, name string) *graph.Fixture {
	filename := path.Join(TestDir, dir, name+".yaml")
	fixture, err := graph.Load(afero.NewOsFs(), filename, graph.NewTemplateCache())
	require.NoError(t, err)
	//
	return fixture
}

func check_Process(t *testing.T, fixture *graph.Fixture, ordering synth.Ordering) synth.Result {
	e := synth.NewEmitter(fixture.Graph, Emit, synth.WithOrdering(ordering), synth.WithInvariantChecks())
	root, err := e.Process(fixture.Start)
	require.NoError(t, err)
	//
	result := e.Result()
	require.Equal(t, root.ID(), result.Main)
	//
	for _, tok := range result.Arena.Tokens() {
		require.Zero(t, tok.PendingRef(), "token %d still referenced", tok.ID())
	}
	//
	return result
}

func check_Invalid(t *testing.T, name string, code string) {
	fixture := load(t, "invalid", name)
	check_InvalidGraph(t, fixture.Graph, code, fixture.Start)
}

func check_InvalidGraph(t *testing.T, g graph.Accessor, code string, start ...graph.Position) {
	var ferr *token.FormatError
	// Graphs built in place start at the origin
	start = append(start, graph.At(0, 0, 0))
	//
	e := synth.NewEmitter(g, Emit, synth.WithInvariantChecks())
	_, err := e.Process(start[0])
	//
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, code, ferr.Code, ferr.Error())
	require.NotEmpty(t, ferr.Positions)
}

func check_Add(t *testing.T, g *graph.Static, kind graph.Kind, literal string, ports ...any) {
	children := make(map[graph.Role]graph.Position)
	//
	for i := 0; i < len(ports); i += 2 {
		children[ports[i].(graph.Role)] = ports[i+1].(graph.Position)
	}
	//
	require.NoError(t, g.Add(kind, literal, children))
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

// Render the structure of a token, identifying tokens by position rather than
// by id (which depends on visiting order).
func shape(arena *token.Arena, id token.ID) string {
	var builder strings.Builder
	//
	switch t := arena.Get(id).(type) {
	case *token.TermInput:
		if !t.HasValue() {
			return "?"
		}
		//
		return shape(arena, t.Value())
	case *token.Parameter:
		return fmt.Sprintf("%s%s", t.Name(), t.Blocks()[0])
	case token.ConstructRoot:
		builder.WriteString(fmt.Sprintf("%s%s{", t.Kind(), t.Blocks()[0]))
		//
		for i, child := range t.Children() {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			builder.WriteString(fmt.Sprintf("%s=%s", child.Name, shape(arena, child.Token)))
		}
		//
		builder.WriteString("}")
	}
	//
	return builder.String()
}

// Render the structure of every unreferenced root, in position order.
func shapes(result synth.Result) []string {
	var items []string
	//
	for _, id := range result.Unreferenced {
		items = append(items, shape(result.Arena, id))
	}
	//
	slices.Sort(items)
	//
	return items
}
