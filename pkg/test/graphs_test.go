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
package test

import (
	"testing"

	"github.com/consensys/go-termweave/pkg/test/util"
)

// ===================================================================
// Valid Graphs
// ===================================================================

func Test_Valid_Zero(t *testing.T) {
	util.CheckValid(t, "zero")
}

func Test_Valid_One(t *testing.T) {
	util.CheckValid(t, "one")
}

func Test_Valid_Two(t *testing.T) {
	util.CheckValid(t, "two")
}

func Test_Valid_Identity(t *testing.T) {
	util.CheckValid(t, "identity")
}

func Test_Valid_Shadow(t *testing.T) {
	util.CheckValid(t, "shadow")
}

func Test_Valid_Shared(t *testing.T) {
	util.CheckValid(t, "shared")
}

func Test_Valid_Twice(t *testing.T) {
	util.CheckValid(t, "twice")
}

func Test_Valid_Chain(t *testing.T) {
	util.CheckValid(t, "chain")
}

func Test_Valid_Dependent(t *testing.T) {
	util.CheckValid(t, "dependent")
}

func Test_Valid_Absurd(t *testing.T) {
	util.CheckValid(t, "absurd")
}

func Test_Valid_Pred(t *testing.T) {
	util.CheckValid(t, "pred")
}

func Test_Valid_Refl(t *testing.T) {
	util.CheckValid(t, "refl")
}

// ===================================================================
// Invalid Graphs
// ===================================================================

func Test_Invalid_Cycle(t *testing.T) {
	util.CheckInvalid(t, "cycle")
}

func Test_Invalid_MissingOperand(t *testing.T) {
	util.CheckInvalid(t, "missing_operand")
}

func Test_Invalid_MissingResult(t *testing.T) {
	util.CheckInvalid(t, "missing_result")
}

func Test_Invalid_TwoResults(t *testing.T) {
	util.CheckInvalid(t, "two_results")
}

func Test_Invalid_Unanchored(t *testing.T) {
	util.CheckInvalid(t, "unanchored")
}

func Test_Invalid_SelfAnchor(t *testing.T) {
	util.CheckInvalid(t, "self_anchor")
}

func Test_Invalid_WrongSubtree(t *testing.T) {
	util.CheckInvalid(t, "wrong_subtree")
}
