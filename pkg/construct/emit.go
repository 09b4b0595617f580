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

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/synth"
	"github.com/consensys/go-termweave/pkg/token"
)

// Emit is the synthesis strategy for all block kinds.  Visiting any port of a
// construct creates the construct (if it does not already exist), attaches the
// port to whatever feeds it and schedules everything it feeds.
func Emit(e *synth.Emitter, pos graph.Position) error {
	block, ok := e.Block(pos)
	//
	if !ok {
		return token.NewFormatError(token.UnknownBlock, "no block at position", pos)
	}
	//
	switch {
	case block.Kind != graph.ScopePort:
		owner, err := getOrCreate(e, pos, block, newConstruct)
		if err != nil {
			return err
		}
		//
		return emitPort(e, pos, block, owner)
	case hasPort(block, graph.RoleParameter):
		owner, err := getOrCreate(e, pos, block, newParameter)
		if err != nil {
			return err
		}
		//
		return emitPort(e, pos, block, owner)
	case hasPort(block, graph.RoleResult):
		owner, err := getOrCreate(e, pos, block, newResult)
		if err != nil {
			return err
		}
		//
		return emitPort(e, pos, block, owner)
	case block.Role == graph.RoleForward:
		return emitForward(e, pos)
	case block.Role == graph.RoleTap:
		return emitTap(e, pos)
	default:
		return token.NewFormatError(token.MalformedConstruct, "unrecognised scope port", pos)
	}
}

// Constructor of the owning token for a given block.
type constructor func(*synth.Emitter, graph.Block) (token.ID, error)

func getOrCreate(e *synth.Emitter, pos graph.Position, block graph.Block, fn constructor) (token.ID, error) {
	if owner, ok := e.Owner(pos); ok {
		return owner, nil
	}
	//
	owner, err := fn(e, block)
	if err != nil {
		return token.Nil, err
	}
	//
	e.RegisterPorts(owner, block)
	//
	return owner, nil
}

func newConstruct(e *synth.Emitter, block graph.Block) (token.ID, error) {
	var (
		arena = e.Arena()
		ports = make(map[graph.Role]graph.Position)
	)
	// Check all required ports are present
	for _, role := range requiredPorts[block.Kind] {
		pos, ok := block.Port(role)
		if !ok {
			msg := fmt.Sprintf("%s without %s port", block.Kind, role)
			return token.Nil, token.NewFormatError(token.MalformedConstruct, msg, block.Ports()...)
		}
		//
		ports[role] = pos
	}
	//
	var (
		output = ports[graph.RoleOutput]
		scope  = ports[graph.RoleScope]
	)
	//
	switch block.Kind {
	case graph.Constant:
		c := arena.NewConstant(output, block.Literal)
		e.AddPreparedSource(output, c.ID(), c.ID(), graph.TermNetwork)
		//
		return c.ID(), nil
	case graph.Application:
		app := arena.NewApplication(output, ports[graph.RoleApplicand], ports[graph.RoleArgument])
		e.AddPreparedSource(output, app.ID(), app.ID(), graph.TermNetwork)
		e.AddPrepared(ports[graph.RoleApplicand], app.Applicand(), app.ID())
		e.AddPrepared(ports[graph.RoleArgument], app.Argument(), app.ID())
		//
		return app.ID(), nil
	case graph.Function, graph.Quantifier:
		var b token.Token
		//
		if block.Kind == graph.Function {
			b = arena.NewFunction(output)
		} else {
			b = arena.NewQuantifier(output)
		}
		//
		b.AddBlock(scope)
		e.AddPreparedSource(output, b.ID(), b.ID(), graph.TermNetwork)
		e.AddPreparedSource(scope, b.ID(), b.ID(), graph.ScopeNetwork)
		//
		return b.ID(), nil
	case graph.Match:
		input := ports[graph.RoleInput]
		m := arena.NewMatch(output, input)
		m.AddBlock(scope)
		e.AddPreparedSource(output, m.ID(), m.ID(), graph.TermNetwork)
		e.AddPreparedSource(scope, m.ID(), m.ID(), graph.ScopeNetwork)
		e.AddPrepared(input, m.Input(), m.ID())
		//
		return m.ID(), nil
	case graph.CaseArm:
		arm := ports[graph.RoleArm]
		c := arena.NewCaseArm(arm, block.Literal)
		e.AddPreparedSource(arm, c.ID(), c.ID(), graph.ScopeNetwork)
		//
		return c.ID(), nil
	default:
		panic(fmt.Sprintf("unknown construct kind %s", block.Kind))
	}
}

// Ports which every construct of a given kind must have.
var requiredPorts = map[graph.Kind][]graph.Role{
	graph.Constant:    {graph.RoleOutput},
	graph.Application: {graph.RoleOutput, graph.RoleApplicand, graph.RoleArgument},
	graph.Function:    {graph.RoleOutput, graph.RoleScope},
	graph.Quantifier:  {graph.RoleOutput, graph.RoleScope},
	graph.Match:       {graph.RoleOutput, graph.RoleInput, graph.RoleScope},
	graph.CaseArm:     {graph.RoleArm},
}

func newParameter(e *synth.Emitter, block graph.Block) (token.ID, error) {
	var (
		arena  = e.Arena()
		pos, _ = block.Port(graph.RoleParameter)
		param  = arena.NewParameter(pos, block.Literal)
	)
	//
	e.AddPreparedSource(pos, param.ID(), param.ID(), graph.TermNetwork)
	//
	if typ, ok := block.Port(graph.RoleType); ok {
		in := arena.NewTermInput(typ, string(graph.RoleType), param.ID())
		param.SetType(in.ID())
		e.AddPrepared(typ, in.ID(), param.ID())
	}
	//
	return param.ID(), nil
}

func newResult(e *synth.Emitter, block graph.Block) (token.ID, error) {
	var (
		arena     = e.Arena()
		result, _ = block.Port(graph.RoleResult)
		scope, ok = block.Port(graph.RoleResultScope)
	)
	//
	if !ok {
		return token.Nil, token.NewFormatError(token.MalformedConstruct, "result without scope", result)
	}
	//
	in := arena.NewTermInput(result, string(graph.RoleResult), token.Nil)
	in.AddBlock(scope)
	e.AddPrepared(result, in.ID(), in.ID())
	e.AddPrepared(scope, in.ID(), in.ID())
	//
	return in.ID(), nil
}

// Visit one port of a block, whose owner has already been created.  The port
// is first attached to its upstream source (if it is a sink), then everything
// downstream (if it is a source) is scheduled.
func emitPort(e *synth.Emitter, pos graph.Position, block graph.Block, owner token.ID) error {
	var (
		node   = e.Node(pos)
		source = token.Nil
	)
	//
	if expected, ok := graph.SinkNetwork(block.Role); ok {
		if node.Source == nil {
			return unconnected(block.Role, pos)
		}
		//
		id, network, err := e.GetOrCreateSource(*node.Source)
		if err != nil {
			return err
		} else if network != expected {
			msg := fmt.Sprintf("%s port connected to %s network", block.Role, network)
			return token.NewFormatError(token.WrongNetwork, msg, *node.Source, pos)
		} else if err := attach(e, id, pos, block.Role); err != nil {
			return err
		}
		//
		source = id
	}
	//
	if _, ok := graph.SourceNetwork(block.Role); ok {
		if err := addChildren(e, pos, node); err != nil {
			return err
		}
	}
	//
	if source != token.Nil {
		e.Release(source, pos)
	}
	//
	e.Release(owner, pos)
	//
	return nil
}

func attach(e *synth.Emitter, source token.ID, pos graph.Position, role graph.Role) error {
	switch role {
	case graph.RoleParameter, graph.RoleResultScope, graph.RoleArm:
		return e.AddPort(source, pos, role)
	default:
		input, _ := e.Prepared(pos)
		//
		if err := e.Arena().AddSink(source, input); err != nil {
			return err
		}
		//
		e.AddConnector(source, pos, graph.TermNetwork)
		//
		return nil
	}
}

func addChildren(e *synth.Emitter, pos graph.Position, node graph.Node) error {
	id, _ := e.Prepared(pos)
	//
	for _, sink := range node.Sinks {
		if err := e.AddPendingChild(id, sink); err != nil {
			return err
		}
	}
	//
	return nil
}

// A forward relays whatever its own source supplies, along the same network.
func emitForward(e *synth.Emitter, pos graph.Position) error {
	node := e.Node(pos)
	//
	if node.Source == nil {
		return token.NewFormatError(token.MalformedConstruct, "forward not connected to any source", pos)
	}
	//
	id, network, err := e.GetOrCreateSource(*node.Source)
	if err != nil {
		return err
	}
	//
	e.AddPreparedSource(pos, id, id, network)
	e.AddConnector(id, pos, network)
	//
	if err := addChildren(e, pos, node); err != nil {
		return err
	}
	//
	e.Release(id, pos)
	//
	return nil
}

// A tap observes a source without consuming it.
func emitTap(e *synth.Emitter, pos graph.Position) error {
	node := e.Node(pos)
	//
	if node.Source == nil {
		return token.NewFormatError(token.MalformedConstruct, "tap not connected to any source", pos)
	}
	//
	id, _, err := e.GetOrCreateSource(*node.Source)
	if err != nil {
		return err
	}
	//
	e.AddConnector(id, pos, graph.TermNetwork)
	e.Release(id, pos)
	//
	return nil
}

func unconnected(role graph.Role, pos graph.Position) error {
	switch role {
	case graph.RoleParameter:
		return token.NewFormatError(token.MalformedConstruct, "parameter not bound by any binder", pos)
	case graph.RoleResultScope:
		return token.NewFormatError(token.MalformedConstruct, "result not bound by any binder", pos)
	case graph.RoleArm:
		return token.NewFormatError(token.MalformedConstruct, "case arm not attached to any match", pos)
	default:
		return token.NewFormatError(token.MissingOperand, fmt.Sprintf("%s has no value", role), pos)
	}
}

func hasPort(block graph.Block, role graph.Role) bool {
	_, ok := block.Port(role)
	return ok
}
