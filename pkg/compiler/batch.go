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
	"sync"

	"github.com/consensys/go-termweave/pkg/graph"
	multierr "github.com/hashicorp/go-multierror"
	errwrap "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Batch compiles a number of fixtures concurrently, using at most limit
// goroutines (or one per fixture if limit is not positive).  Each fixture is
// compiled under its own name, with the remaining settings taken from a given
// configuration.  Outputs are returned in the order of the fixtures, together
// with the errors of every compilation which failed.
func Batch(ctx context.Context, fixtures []*graph.Fixture, cfg Config, limit int) ([]*Output, error) {
	var (
		outputs = make([]*Output, len(fixtures))
		mux     sync.Mutex
		errs    error
	)
	//
	g, gctx := errgroup.WithContext(ctx)
	//
	if limit > 0 {
		g.SetLimit(limit)
	}
	//
	for i, fixture := range fixtures {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			//
			c := cfg
			c.Name = fixture.Name
			//
			out, err := Compile(gctx, fixture.Graph, fixture.Start, c)
			outputs[i] = out
			//
			if err != nil {
				mux.Lock()
				errs = multierr.Append(errs, errwrap.Wrapf(err, "%s", fixture.Name))
				mux.Unlock()
			}
			// Failures are collected, not propagated, so the batch completes.
			return nil
		})
	}
	//
	if err := g.Wait(); err != nil {
		return outputs, err
	}
	//
	log.Debugf("compiled %d fixtures", len(fixtures))
	//
	return outputs, errs
}
