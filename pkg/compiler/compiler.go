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
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/consensys/go-termweave/pkg/codegen"
	"github.com/consensys/go-termweave/pkg/construct"
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/consensys/go-termweave/pkg/sanitize"
	"github.com/consensys/go-termweave/pkg/scope"
	"github.com/consensys/go-termweave/pkg/synth"
	"github.com/consensys/go-termweave/pkg/token"
	"github.com/consensys/go-termweave/pkg/verify"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config determines how a graph is compiled.
type Config struct {
	// Name of the generated definition.
	Name string
	// Shuffle visits positions in a random (but seeded) order, rather than
	// last-in first-out.
	Shuffle bool
	// Seed for the shuffled ordering.
	Seed int64
	// Sanitize generated text, even when it is not verified.  Text handed to a
	// verifier is always sanitized first.
	Sanitize bool
	// CheckInvariants after every step of synthesis (slow).
	CheckInvariants bool
	// Verifier to hand sanitized text to, or nil to skip verification.
	Verifier verify.Verifier
}

// DefaultConfig returns a configuration which sanitizes, but does not verify,
// the definition of a given name.
func DefaultConfig(name string) Config {
	return Config{Name: name, Sanitize: true}
}

// Ordering constructs a fresh worklist ordering for one compilation.
func (p Config) Ordering() synth.Ordering {
	if p.Shuffle {
		return synth.Shuffled(p.Seed)
	}
	//
	return synth.LIFO()
}

// Output holds everything produced by compiling a graph.  Fields are filled in
// by each stage which completes, hence a failed compilation may still hold
// partial output (e.g. generated text which was rejected).
type Output struct {
	// Name of the generated definition.
	Name string
	// Session of the synthesis run.
	Session uuid.UUID
	// Synthesis holds the token graph.
	Synthesis *synth.Result
	// Plan holds the assigned scopes.
	Plan *scope.Plan
	// Text generated for the definition.
	Text string
	// Verification records the verifier's result.
	Verification verify.Result
	// Outcome of the compilation.
	Outcome string
}

// Unverified is the error reported when the verifier rejects generated text.
type Unverified struct {
	Result verify.Result
}

func (p *Unverified) Error() string {
	return fmt.Sprintf("verification %s", p.Result.String())
}

// Compile turns a graph, starting from a given position, into a (sanitized and
// verified) definition.  Malformed graphs are reported as *token.FormatError,
// disallowed text as *sanitize.Rejection and refused text as *Unverified.
func Compile(ctx context.Context, g graph.Accessor, start graph.Position, cfg Config) (*Output, error) {
	out, err := compile(ctx, g, start, cfg)
	out.Outcome = Outcome(err)
	//
	record(err)
	//
	return out, err
}

func compile(ctx context.Context, g graph.Accessor, start graph.Position, cfg Config) (*Output, error) {
	var (
		out     = &Output{Name: cfg.Name}
		options = []synth.Option{synth.WithOrdering(cfg.Ordering())}
	)
	//
	if cfg.CheckInvariants {
		options = append(options, synth.WithInvariantChecks())
	}
	// Synthesis
	stats := NewPerfStats("synthesis")
	emitter := synth.NewEmitter(g, construct.Emit, options...)
	_, err := emitter.Process(start)
	out.Session = emitter.Session()
	logger := emitter.Logger().WithField("name", cfg.Name)
	//
	if err != nil {
		logger.Debugf("synthesis failed: %s", err)
		return out, err
	}
	//
	result := emitter.Result()
	out.Synthesis = &result
	stats.Log(logger)
	// Scope assignment
	stats = NewPerfStats("scope")
	//
	if out.Plan, err = scope.Assign(result); err != nil {
		logger.Debugf("scope assignment failed: %s", err)
		return out, err
	}
	//
	stats.Log(logger)
	// Code generation
	stats = NewPerfStats("codegen")
	//
	if out.Text, err = codegen.EmitDefinition(out.Plan, cfg.Name); err != nil {
		logger.Debugf("code generation failed: %s", err)
		return out, err
	}
	//
	stats.Log(logger)
	// Sanitization
	if cfg.Sanitize || cfg.Verifier != nil {
		stats = NewPerfStats("sanitize")
		//
		if err = sanitize.Sanitize(out.Text); err != nil {
			logger.Warnf("generated text rejected: %s", err)
			return out, err
		}
		//
		stats.Log(logger)
	}
	// Verification
	if cfg.Verifier != nil {
		stats = NewPerfStats("verify")
		//
		if out.Verification, err = cfg.Verifier.Verify(ctx, cfg.Name, out.Text); err != nil {
			return out, err
		} else if !out.Verification.OK {
			return out, &Unverified{out.Verification}
		}
		//
		stats.Log(logger)
	}
	//
	logger.Debugf("compiled %d tokens into %d characters", result.Arena.Len(), len(out.Text))
	//
	return out, nil
}

// Outcome classifies the error returned from a compilation.
func Outcome(err error) string {
	var (
		ferr *token.FormatError
		rej  *sanitize.Rejection
		unv  *Unverified
	)
	//
	switch {
	case err == nil:
		return OutcomeOk
	case errors.As(err, &ferr):
		return OutcomeFormatError
	case errors.As(err, &rej):
		return OutcomeRejected
	case errors.As(err, &unv):
		return OutcomeUnverified
	default:
		return OutcomeFailed
	}
}

func record(err error) {
	var (
		ferr *token.FormatError
		rej  *sanitize.Rejection
	)
	//
	runsTotal.WithLabelValues(Outcome(err)).Inc()
	//
	if errors.As(err, &ferr) {
		formatErrorsTotal.WithLabelValues(ferr.Code).Inc()
	} else if errors.As(err, &rej) {
		rejectionsTotal.WithLabelValues(rej.State.String()).Inc()
	}
}

// Logger returns a logger tagged with the session of a given output.
func (p *Output) Logger() *log.Entry {
	return log.WithField("session", p.Session.String()).WithField("name", p.Name)
}
