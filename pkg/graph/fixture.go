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

import (
	"fmt"

	errwrap "github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Fixture is a graph read from disk, together with the position synthesis
// should start from and the name of the resulting definition.
type Fixture struct {
	Name  string
	Start Position
	Graph *Static
}

// UnmarshalYAML reads a position written as a three element sequence.
func (p *Position) UnmarshalYAML(node *yaml.Node) error {
	var coords []int
	//
	if err := node.Decode(&coords); err != nil {
		return err
	} else if len(coords) != 3 {
		return fmt.Errorf("line %d: position requires three coordinates", node.Line)
	}
	//
	p.X, p.Y, p.Z = coords[0], coords[1], coords[2]
	//
	return nil
}

// MarshalYAML writes a position as a three element sequence.
func (p Position) MarshalYAML() (any, error) {
	return []int{p.X, p.Y, p.Z}, nil
}

type fixtureFile struct {
	Name       string            `yaml:"name"`
	Start      Position          `yaml:"start"`
	Constructs []fixtureConstruct `yaml:"constructs"`
	Links      []fixtureLink     `yaml:"links"`
}

type fixtureConstruct struct {
	Kind    string            `yaml:"kind"`
	Literal string            `yaml:"literal"`
	Ports   map[Role]Position `yaml:"ports"`
}

type fixtureLink struct {
	Source Position `yaml:"source"`
	Sink   Position `yaml:"sink"`
}

// Load reads a fixture file from a given filesystem.
func Load(fs afero.Fs, filename string, templates *TemplateCache) (*Fixture, error) {
	bytes, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read fixture %s", filename)
	}
	//
	fixture, err := ParseFixture(bytes, templates)
	if err != nil {
		return nil, errwrap.Wrapf(err, "invalid fixture %s", filename)
	}
	//
	return fixture, nil
}

// ParseFixture parses the YAML text of a fixture.
func ParseFixture(bytes []byte, templates *TemplateCache) (*Fixture, error) {
	var file fixtureFile
	//
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, err
	}
	//
	graph := NewStatic(templates)
	//
	for i, c := range file.Constructs {
		kind, err := ParseKind(c.Kind)
		if err != nil {
			return nil, errwrap.Wrapf(err, "construct %d", i)
		} else if err := graph.Add(kind, c.Literal, c.Ports); err != nil {
			return nil, errwrap.Wrapf(err, "construct %d", i)
		}
	}
	//
	for i, l := range file.Links {
		if err := graph.Link(l.Source, l.Sink); err != nil {
			return nil, errwrap.Wrapf(err, "link %d", i)
		}
	}
	//
	name := file.Name
	if name == "" {
		name = "main"
	}
	//
	return &Fixture{name, file.Start, graph}, nil
}
