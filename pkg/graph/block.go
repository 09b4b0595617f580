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

import "fmt"

// Kind identifies the sort of construct a block belongs to.  The set of kinds
// is closed, and every consumer dispatches over it with a switch.
type Kind uint8

const (
	// Constant is a literal value taken from the block's inventory.
	Constant Kind = iota
	// Application applies an applicand to a single argument.
	Application
	// Function is a lambda abstraction over one or more parameters.
	Function
	// Quantifier is a universal quantification over one or more parameters.
	Quantifier
	// Match is a pattern match over an input, with zero or more case arms.
	Match
	// CaseArm is one arm of a pattern match.
	CaseArm
	// ScopePort covers parameters, results, forwarding nodes and taps.
	ScopePort
)

var kindNames = []string{"constant", "application", "function", "quantifier", "match", "case-arm", "scope-port"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind converts the textual name of a kind (as written in fixtures) back
// into a kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown construct kind \"%s\"", name)
}

// Role identifies which port of a block a given position is.
type Role string

// Port roles.  Sources originate a network, sinks belong to the network of
// their upstream source.
const (
	// RoleOutput is the term source carrying a construct's value.
	RoleOutput Role = "output"
	// RoleApplicand is the function operand of an application.
	RoleApplicand Role = "applicand"
	// RoleArgument is the argument operand of an application.
	RoleArgument Role = "argument"
	// RoleInput is the scrutinee of a match.
	RoleInput Role = "input"
	// RoleScope is the scope source of a binder or match.
	RoleScope Role = "scope"
	// RoleArm is the single port of a case arm.  It attaches to a match's
	// scope and is itself the scope source for the arm's parameters.
	RoleArm Role = "arm"
	// RoleParameter is a bound variable.  It attaches to a binder's scope
	// and is itself the term source for uses of the variable.
	RoleParameter Role = "parameter"
	// RoleType is the (optional) type annotation of a parameter.
	RoleType Role = "type"
	// RoleResultScope attaches a result block to a binder's scope.
	RoleResultScope Role = "result-scope"
	// RoleResult is the term sink supplying a binder's body.
	RoleResult Role = "result"
	// RoleForward relays the network of its source.
	RoleForward Role = "forward"
	// RoleTap is a sink belonging to no construct.
	RoleTap Role = "tap"
)

// Network distinguishes the two sub-networks of the spatial graph.
type Network uint8

const (
	// TermNetwork carries values from term sources to term sinks.
	TermNetwork Network = iota
	// ScopeNetwork carries scope from binders to their ports.
	ScopeNetwork
)

func (n Network) String() string {
	if n == TermNetwork {
		return "term"
	}
	//
	return "scope"
}

// SourceNetwork determines which network (if any) a port of the given role
// originates.
func SourceNetwork(role Role) (Network, bool) {
	switch role {
	case RoleOutput, RoleParameter:
		return TermNetwork, true
	case RoleScope, RoleArm:
		return ScopeNetwork, true
	default:
		return 0, false
	}
}

// SinkNetwork determines which network (if any) a port of the given role
// expects to be attached to.  Forwarding ports attach to either network, and
// therefore report false.
func SinkNetwork(role Role) (Network, bool) {
	switch role {
	case RoleApplicand, RoleArgument, RoleInput, RoleType, RoleResult, RoleTap:
		return TermNetwork, true
	case RoleArm, RoleParameter, RoleResultScope:
		return ScopeNetwork, true
	default:
		return 0, false
	}
}

// Block describes the construct occupying a given position.  Every position
// of a multi-port construct reports the same kind, literal and children table,
// and its own role.
type Block struct {
	Kind Kind
	// Role of the position this block was obtained for.
	Role Role
	// Children maps every port of the construct to its position.
	Children map[Role]Position
	// Literal supplied from the block's inventory (constant text,
	// constructor name or declared parameter name).
	Literal string
}

// Port returns the position of a given port, if the construct has one.
func (b *Block) Port(role Role) (Position, bool) {
	pos, ok := b.Children[role]
	return pos, ok
}

// Ports returns the positions of all ports of this block, in position order.
func (b *Block) Ports() []Position {
	var ports []Position
	//
	for _, pos := range b.Children {
		ports = append(ports, pos)
	}
	//
	return SortPositions(ports)
}

// Node describes how a position is connected, as resolved by the external
// connectivity layer.
type Node struct {
	// IsSource indicates the position originates a network.
	IsSource bool
	// Source is the upstream source of the network this position belongs to
	// (if any).
	Source *Position
	// Sinks are the positions whose upstream source is this position.
	Sinks []Position
	// Connected indicates whether the position is attached to any network at
	// all.
	Connected bool
}

// Accessor provides read-only access to an already connectivity-resolved
// spatial graph.  Both operations are pure lookups.
type Accessor interface {
	// GetBlock returns the block at a given position, or false if there is
	// none.
	GetBlock(pos Position) (Block, bool)
	// GetNode returns the connectivity of a given position.
	GetNode(pos Position) Node
}
