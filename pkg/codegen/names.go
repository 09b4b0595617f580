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
package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/iancoleman/strcase"
)

// Words which cannot be used as identifiers.
var reserved = []string{
	"as", "at", "cofix", "else", "end", "exists", "exists2", "fix", "for", "forall", "fun", "if", "IF", "in",
	"let", "match", "mod", "return", "then", "using", "where", "with", "Prop", "Set", "SProp", "Type",
	"Definition", "Lemma", "Theorem", "Example", "Goal", "Check", "Compute", "From", "Require", "Import",
	"Proof", "Qed", "Defined", "Eval", "Ltac", "Ltac2",
}

var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_']*$|^_[A-Za-z0-9_']+$`)

// IsIdentifier checks whether a given string can be used as an identifier as is.
func IsIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// Names allocates identifiers, such that no two bindings within a definition
// share the same name.  This rules out shadowing altogether.
type Names struct {
	used map[string]bool
}

// NewNames constructs a name allocator where reserved words, and any given
// names, are already taken.
func NewNames(taken ...string) *Names {
	names := &Names{make(map[string]bool)}
	//
	for _, name := range reserved {
		names.used[name] = true
	}
	//
	for _, name := range taken {
		names.used[name] = true
	}
	//
	return names
}

// Fresh allocates a new identifier based on a preferred name.  If the name is
// taken then an increasing numeric suffix is appended.
func (p *Names) Fresh(preferred string) string {
	if !IsIdentifier(preferred) {
		preferred = "x"
	}
	//
	name := preferred
	//
	for i := 1; p.used[name]; i++ {
		name = fmt.Sprintf("%s%d", preferred, i)
	}
	//
	p.used[name] = true
	//
	return name
}

// Shared derives the preferred name of a shared construct from its kind and
// first position.  For example, an application at (4,-1,0) is named
// application_4_m1_0.
func Shared(kind graph.Kind, pos graph.Position) string {
	var coords = []int{pos.X, pos.Y, pos.Z}
	//
	parts := []string{strcase.ToSnake(kind.String())}
	//
	for _, c := range coords {
		if c < 0 {
			parts = append(parts, fmt.Sprintf("m%d", -c))
		} else {
			parts = append(parts, fmt.Sprintf("%d", c))
		}
	}
	//
	return strings.Join(parts, "_")
}
