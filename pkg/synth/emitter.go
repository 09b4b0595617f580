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
	"fmt"
	"slices"

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/token"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Strategy is responsible for visiting a single position of the graph, using
// the engine's primitives to create (or extend) the tokens representing it.
type Strategy func(e *Emitter, pos graph.Position) error

// Option configures an emitter.
type Option func(*Emitter)

// WithOrdering determines the order in which pending positions are visited.
// The default is LIFO.
func WithOrdering(ordering Ordering) Option {
	return func(e *Emitter) {
		e.ordering = ordering
	}
}

// WithInvariantChecks enables checking of the engine's internal invariants
// after every visit.  This is expensive and intended for testing.
func WithInvariantChecks() Option {
	return func(e *Emitter) {
		e.checks = true
	}
}

// Result captures everything produced by a successful run of the engine.
type Result struct {
	// Session identifying the run which produced this result.
	Session uuid.UUID
	// Arena holding all tokens produced.
	Arena *token.Arena
	// Root of the construct synthesis started from.
	Main token.ID
	// Roots (other than the main root) which nothing references, in order of
	// finalisation.
	Unreferenced []token.ID
	// Number of positions visited.
	Visited uint
}

// Emitter is the synthesis engine.  It explores a spatial graph from a given
// starting position, creating tokens for the constructs it finds and wiring
// them together.  Every position holding a reference on a token is still to be
// visited, and a token is finalised once all references on it are released.
// An emitter is not reentrant, though it can be reused for successive runs.
type Emitter struct {
	accessor graph.Accessor
	strategy Strategy
	ordering Ordering
	checks   bool
	running  bool
	logger   *log.Entry
	// State of the current run
	session      uuid.UUID
	first        graph.Position
	arena        *token.Arena
	worklist     *Worklist
	visited      map[graph.Position]struct{}
	visiting     map[graph.Position]struct{}
	owners       map[graph.Position]token.ID
	prepared     map[graph.Position]entry
	held         map[token.ID][]graph.Position
	unreferenced []token.ID
}

// Entry in the prepared map, identifying the token currently representing a
// given position.
type entry struct {
	token token.ID
	// Token whose finalisation retires this entry.
	owner token.ID
	// Network along which this position supplies its token (if it is a source).
	network graph.Network
	source  bool
}

// NewEmitter constructs a new engine reading a given graph, where each
// position is visited by a given strategy.
func NewEmitter(accessor graph.Accessor, strategy Strategy, options ...Option) *Emitter {
	e := &Emitter{accessor: accessor, strategy: strategy, ordering: LIFO()}
	//
	for _, opt := range options {
		opt(e)
	}
	//
	return e
}

// Process runs synthesis from a given starting position, which must be a port
// of a construct.  The root of that construct is returned, whilst everything
// else produced is available via Result().
func (p *Emitter) Process(start graph.Position) (token.ConstructRoot, error) {
	if p.running {
		panic("emitter is not reentrant")
	}
	//
	p.running = true
	defer func() { p.running = false }()
	//
	p.reset()
	p.first = start
	p.logger.Debugf("synthesis starting from %s", start)
	//
	if block, ok := p.accessor.GetBlock(start); !ok {
		return nil, token.NewFormatError(token.UnknownBlock, "no block at starting position", start)
	} else if block.Kind == graph.ScopePort {
		return nil, token.NewFormatError(token.MalformedConstruct, "synthesis must start from a construct", start)
	}
	//
	p.worklist.Push(start)
	//
	for !p.worklist.IsEmpty() {
		if err := p.visit(p.worklist.Pop()); err != nil {
			return nil, err
		} else if !p.checks {
			continue
		} else if err := p.VerifyInvariants(); err != nil {
			panic(err.Error())
		}
	}
	//
	if err := p.checkComplete(); err != nil {
		return nil, err
	} else if len(p.prepared) != 0 {
		panic(fmt.Sprintf("%d prepared positions remain after synthesis", len(p.prepared)))
	}
	//
	main, _ := p.arena.Root(p.owners[start])
	// Done
	p.logger.Debugf("synthesis complete (%d positions, %d tokens, %d unreferenced)", len(p.visited),
		p.arena.Len(), len(p.unreferenced))
	//
	return main, nil
}

// Result returns the outcome of the most recent (successful) run.
func (p *Emitter) Result() Result {
	main := p.owners[p.first]
	//
	unreferenced := slices.DeleteFunc(slices.Clone(p.unreferenced), func(id token.ID) bool {
		return id == main
	})
	//
	return Result{p.session, p.arena, main, unreferenced, uint(len(p.visited))}
}

// Session returns the identifier of the most recent run.
func (p *Emitter) Session() uuid.UUID {
	return p.session
}

// Logger returns the logger for the current run.
func (p *Emitter) Logger() *log.Entry {
	return p.logger
}

// Accessor returns the graph being synthesised.
func (p *Emitter) Accessor() graph.Accessor {
	return p.accessor
}

// Arena returns the arena of the current run.
func (p *Emitter) Arena() *token.Arena {
	return p.arena
}

// Block returns the block at a given position.
func (p *Emitter) Block(pos graph.Position) (graph.Block, bool) {
	return p.accessor.GetBlock(pos)
}

// Node returns the connectivity of a given position.
func (p *Emitter) Node(pos graph.Position) graph.Node {
	return p.accessor.GetNode(pos)
}

// Owner returns the token owning the block containing a given position, if it
// has been created.
func (p *Emitter) Owner(pos graph.Position) (token.ID, bool) {
	id, ok := p.owners[pos]
	return id, ok
}

// Prepared returns the token currently representing a given position, if any.
func (p *Emitter) Prepared(pos graph.Position) (token.ID, bool) {
	e, ok := p.prepared[pos]
	return e.token, ok
}

// RegisterPorts makes a token the owner of every port of a block.  Each port
// takes a reference on the owner and becomes pending, as does any upstream
// source feeding it.
func (p *Emitter) RegisterPorts(owner token.ID, block graph.Block) {
	tok := p.arena.Get(owner)
	//
	for _, port := range block.Ports() {
		p.owners[port] = owner
		tok.AddRef(port)
		p.AddPending(port)
		p.MaybeAddPendingSource(port)
	}
}

// AddPrepared records the token representing a given position, until its owner
// is finalised.
func (p *Emitter) AddPrepared(pos graph.Position, id token.ID, owner token.ID) {
	p.addPrepared(pos, entry{id, owner, graph.TermNetwork, false})
}

// AddPreparedSource records the token supplied by a given source position
// along a given network, until its owner is finalised.
func (p *Emitter) AddPreparedSource(pos graph.Position, id token.ID, owner token.ID, network graph.Network) {
	p.addPrepared(pos, entry{id, owner, network, true})
}

func (p *Emitter) addPrepared(pos graph.Position, e entry) {
	if _, ok := p.prepared[pos]; ok {
		panic(fmt.Sprintf("position %s already prepared", pos))
	}
	//
	p.prepared[pos] = e
	p.held[e.owner] = append(p.held[e.owner], pos)
}

// AddPending marks a position as still to be visited.  This has no effect if
// the position has already been visited.
func (p *Emitter) AddPending(pos graph.Position) bool {
	if _, ok := p.visited[pos]; ok {
		return false
	}
	//
	return p.worklist.Push(pos)
}

// MaybeAddPendingSource marks the upstream source of a given position (if it
// has one) as still to be visited.  Forwards relay their own source, so chains
// of forwards are followed until a position which is not a forward is reached.
func (p *Emitter) MaybeAddPendingSource(pos graph.Position) {
	seen := map[graph.Position]struct{}{pos: {}}
	//
	for node := p.accessor.GetNode(pos); node.Source != nil; node = p.accessor.GetNode(pos) {
		pos = *node.Source
		//
		if _, ok := seen[pos]; ok {
			// Forwards relaying each other are reported when visited.
			return
		}
		//
		seen[pos] = struct{}{}
		p.AddPending(pos)
		//
		if block, ok := p.accessor.GetBlock(pos); !ok || block.Kind != graph.ScopePort || block.Role != graph.RoleForward {
			return
		}
	}
}

// AddPendingChild records that a downstream position of a given token must
// still be visited.  The position takes a reference on the token until then.
func (p *Emitter) AddPendingChild(id token.ID, pos graph.Position) error {
	var (
		tok         = p.arena.Get(id)
		_, visited  = p.visited[pos]
		_, visiting = p.visiting[pos]
	)
	//
	if tok.HoldsRef(pos) {
		return token.NewFormatError(token.Cycle, "construct consumes its own output", pos)
	} else if visited && !visiting {
		msg := fmt.Sprintf("position already visited without reading from %s", tok.Blocks()[0])
		return token.NewFormatError(token.ConflictingSources, msg, pos)
	}
	//
	tok.AddRef(pos)
	p.AddPending(pos)
	//
	return nil
}

// AddConnector records a position attached to a token along a given network.
func (p *Emitter) AddConnector(id token.ID, pos graph.Position, network graph.Network) {
	p.arena.Get(id).AddConnector(network, pos)
}

// GetOrCreateSource returns the token supplied by a given source position,
// along with the network it is supplied on.  If the position has not yet been
// visited, then it is visited now.
func (p *Emitter) GetOrCreateSource(pos graph.Position) (token.ID, graph.Network, error) {
	if _, ok := p.visiting[pos]; ok {
		if e, ok := p.prepared[pos]; ok && e.source {
			return e.token, e.network, nil
		}
		//
		return token.Nil, 0, token.NewFormatError(token.Cycle, "position depends on itself", pos)
	} else if err := p.visit(pos); err != nil {
		return token.Nil, 0, err
	}
	//
	e, ok := p.prepared[pos]
	//
	if !ok {
		return token.Nil, 0, token.NewFormatError(token.ConflictingSources, "source requested after finalisation", pos)
	} else if !e.source {
		return token.Nil, 0, token.NewFormatError(token.MalformedConstruct, "position supplies nothing", pos)
	}
	//
	return e.token, e.network, nil
}

// AddPort attaches a scope-bound child (i.e. a parameter, result or case arm)
// to the construct supplying it along the scope network.
func (p *Emitter) AddPort(source token.ID, child graph.Position, role graph.Role) error {
	var err error
	//
	switch role {
	case graph.RoleParameter:
		err = p.arena.AddParameter(source, p.owners[child])
	case graph.RoleResultScope:
		err = p.arena.SetResult(source, p.owners[child])
	case graph.RoleArm:
		err = p.arena.AddArm(source, p.owners[child])
	default:
		panic(fmt.Sprintf("%s is not a scope-bound port", role))
	}
	//
	if err == nil {
		p.AddConnector(source, child, graph.ScopeNetwork)
	}
	//
	return err
}

// Release the reference a given position holds on a token.  Once no references
// remain, the token is finalised.
func (p *Emitter) Release(id token.ID, pos graph.Position) {
	if p.arena.Get(id).ReleaseRef(pos) {
		p.finalise(id)
	}
}

// VerifyInvariants checks the engine's bookkeeping between visits.  Every
// position holding a reference must still be pending (or under visit), and
// the source of every pending position must be prepared or pending itself.
func (p *Emitter) VerifyInvariants() error {
	for _, pos := range p.worklist.Items() {
		if _, ok := p.visited[pos]; ok {
			continue
		} else if node := p.accessor.GetNode(pos); node.Source != nil && !p.reachable(*node.Source) {
			return fmt.Errorf("pending position %s has unavailable source %s", pos, *node.Source)
		}
	}
	//
	for _, tok := range p.arena.Tokens() {
		locations := tok.PendingRefLocations()
		//
		if len(locations) != tok.PendingRef() {
			return fmt.Errorf("token %d has inconsistent reference count", tok.ID())
		}
		//
		for _, pos := range locations {
			_, visited := p.visited[pos]
			_, visiting := p.visiting[pos]
			//
			if !visiting && (visited || !p.worklist.Contains(pos)) {
				return fmt.Errorf("position %s holds reference on token %d but is not pending", pos, tok.ID())
			}
		}
	}
	//
	return nil
}

func (p *Emitter) reachable(pos graph.Position) bool {
	_, prepared := p.prepared[pos]
	_, visiting := p.visiting[pos]
	//
	return prepared || visiting || p.worklist.Contains(pos)
}

func (p *Emitter) visit(pos graph.Position) error {
	if _, ok := p.visited[pos]; ok {
		return nil
	}
	//
	p.visited[pos] = struct{}{}
	p.visiting[pos] = struct{}{}
	//
	defer delete(p.visiting, pos)
	//
	p.logger.Tracef("visiting %s", pos)
	//
	return p.strategy(p, pos)
}

func (p *Emitter) finalise(id token.ID) {
	for _, pos := range p.held[id] {
		delete(p.prepared, pos)
	}
	//
	delete(p.held, id)
	//
	if root, ok := p.arena.Root(id); ok && root.IncomingEdgeCount() == 0 {
		p.logger.Debugf("%s at %s is unreferenced", root.Kind(), root.Blocks()[0])
		p.unreferenced = append(p.unreferenced, id)
	}
}

// Check every construct produced is complete.
func (p *Emitter) checkComplete() error {
	for _, tok := range p.arena.Tokens() {
		switch t := tok.(type) {
		case *token.Function, *token.Quantifier:
			b := t.(token.Binder)
			//
			if len(b.Parameters()) == 0 {
				return token.NewFormatError(token.MissingParameter, "binder has no parameters", tok.Blocks()...)
			} else if b.Result() == token.Nil {
				return token.NewFormatError(token.MissingResult, "binder has no result", tok.Blocks()...)
			}
		case *token.CaseArm:
			if t.Result() == token.Nil {
				return token.NewFormatError(token.MissingResult, "case arm has no result", tok.Blocks()...)
			}
		case *token.TermInput:
			if !t.HasValue() {
				msg := fmt.Sprintf("%s has no value", t.Name())
				return token.NewFormatError(token.MissingOperand, msg, tok.Blocks()...)
			}
		}
	}
	//
	return nil
}

func (p *Emitter) reset() {
	p.session = uuid.New()
	p.logger = log.WithField("session", p.session.String())
	p.arena = token.NewArena()
	p.worklist = NewWorklist(p.ordering)
	p.visited = make(map[graph.Position]struct{})
	p.visiting = make(map[graph.Position]struct{})
	p.owners = make(map[graph.Position]token.ID)
	p.prepared = make(map[graph.Position]entry)
	p.held = make(map[token.ID][]graph.Position)
	p.unreferenced = nil
}
