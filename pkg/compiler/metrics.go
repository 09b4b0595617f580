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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a compilation, as recorded by the runs counter.
const (
	OutcomeOk          = "ok"
	OutcomeFormatError = "format_error"
	OutcomeRejected    = "rejected"
	OutcomeUnverified  = "unverified"
	OutcomeFailed      = "failed"
)

var (
	// runsTotal counts compilations by outcome.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "termweave_runs_total",
		Help: "Total compilations by outcome",
	}, []string{"outcome"})

	// formatErrorsTotal counts malformed graphs by error code.
	formatErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "termweave_format_errors_total",
		Help: "Total format errors by code",
	}, []string{"code"})

	// rejectionsTotal counts generated texts refused by the sanitizer, by the
	// state it was in.
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "termweave_sanitizer_rejections_total",
		Help: "Total sanitizer rejections by state",
	}, []string{"state"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "termweave_stage_duration_seconds",
		Help:    "Duration of each compilation stage",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"stage"})
)

// WriteMetrics writes every metric gathered so far to a given file, in the
// Prometheus text format.
func WriteMetrics(filename string) error {
	return prometheus.WriteToTextfile(filename, prometheus.DefaultGatherer)
}
