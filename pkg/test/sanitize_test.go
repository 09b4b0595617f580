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

func Test_Sanitize_Valid_Identity(t *testing.T) {
	util.CheckSanitize(t, "valid/identity")
}

func Test_Sanitize_Valid_Imports(t *testing.T) {
	util.CheckSanitize(t, "valid/imports")
}

func Test_Sanitize_Valid_Lemma(t *testing.T) {
	util.CheckSanitize(t, "valid/lemma")
}

func Test_Sanitize_Valid_Literals(t *testing.T) {
	util.CheckSanitize(t, "valid/literals")
}

func Test_Sanitize_Valid_Ltac2(t *testing.T) {
	util.CheckSanitize(t, "valid/ltac2")
}

func Test_Sanitize_Valid_Let(t *testing.T) {
	util.CheckSanitize(t, "valid/let")
}

func Test_Sanitize_Invalid_Drop(t *testing.T) {
	util.CheckSanitize(t, "invalid/drop")
}

func Test_Sanitize_Invalid_Comment(t *testing.T) {
	util.CheckSanitize(t, "invalid/comment")
}

func Test_Sanitize_Invalid_Import(t *testing.T) {
	util.CheckSanitize(t, "invalid/import")
}

func Test_Sanitize_Invalid_Declare(t *testing.T) {
	util.CheckSanitize(t, "invalid/declare")
}

func Test_Sanitize_Invalid_Semicolon(t *testing.T) {
	util.CheckSanitize(t, "invalid/semicolon")
}

func Test_Sanitize_Invalid_Unterminated(t *testing.T) {
	util.CheckSanitize(t, "invalid/unterminated")
}

func Test_Sanitize_Invalid_Unicode(t *testing.T) {
	util.CheckSanitize(t, "invalid/unicode")
}

func Test_Sanitize_Invalid_Backtick(t *testing.T) {
	util.CheckSanitize(t, "invalid/backtick")
}
