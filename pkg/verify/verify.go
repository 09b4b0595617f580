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
package verify

import (
	"context"
	"fmt"

	"github.com/consensys/go-termweave/pkg/graph"
)

// Result is the outcome of handing generated text to an external verifier.
type Result struct {
	// OK indicates the verifier accepted the text.
	OK bool
	// Message reported by the verifier (typically on failure).
	Message string
	// Positions in the originating graph to highlight, if any.
	Positions []graph.Position
}

// Success constructs a successful result.
func Success() Result {
	return Result{OK: true}
}

// Failure constructs a failed result with a given message, highlighting zero
// or more positions.
func Failure(msg string, positions ...graph.Position) Result {
	return Result{false, msg, positions}
}

// String returns a human readable summary of this result.
func (p Result) String() string {
	if p.OK {
		return "ok"
	} else if len(p.Positions) == 0 {
		return fmt.Sprintf("failed: %s", p.Message)
	}
	//
	return fmt.Sprintf("failed: %s %v", p.Message, p.Positions)
}

// Verifier checks the generated text of a named definition.  This is a
// blocking call, which may be expensive (e.g. running an external prover).  An
// error indicates the verifier itself could not be run, rather than that the
// text was rejected.
type Verifier interface {
	Verify(ctx context.Context, name string, text string) (Result, error)
}

// Func adapts an ordinary function into a Verifier.
type Func func(ctx context.Context, name string, text string) (Result, error)

// Verify implementation for the Verifier interface.
func (f Func) Verify(ctx context.Context, name string, text string) (Result, error) {
	return f(ctx, name, text)
}

// Accept is a verifier which accepts everything.
var Accept Verifier = Func(func(ctx context.Context, _ string, _ string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	//
	return Success(), nil
})
