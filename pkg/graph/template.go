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
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Variant is one admissible port layout of a construct kind.
type Variant struct {
	Required []Role `yaml:"required"`
	Optional []Role `yaml:"optional"`
}

// Matches checks whether a given set of roles fits this variant.
func (v *Variant) Matches(roles []Role) bool {
	for _, r := range v.Required {
		if !slices.Contains(roles, r) {
			return false
		}
	}
	//
	for _, r := range roles {
		if !slices.Contains(v.Required, r) && !slices.Contains(v.Optional, r) {
			return false
		}
	}
	//
	return true
}

// TemplateCache holds the parsed port templates for every construct kind.  A
// cache is created explicitly and handed to whichever accessor needs it, so
// its lifetime is that of a synthesis session (or until Reload is called).
type TemplateCache struct {
	mux sync.RWMutex
	// Reads the text the templates are parsed from.
	read func() ([]byte, error)
	// Parsed variants, indexed by kind.
	variants map[Kind][]Variant
}

// NewTemplateCache constructs a cache over the built-in templates.
func NewTemplateCache() *TemplateCache {
	cache, err := NewTemplateCacheFrom(defaultTemplates)
	// Built-in templates are fixed, so any error here is a defect.
	if err != nil {
		panic(err)
	}
	//
	return cache
}

// NewTemplateCacheFrom constructs a cache over the given template text.
func NewTemplateCacheFrom(source []byte) (*TemplateCache, error) {
	return newTemplateCache(func() ([]byte, error) { return source, nil })
}

// LoadTemplates constructs a cache over the templates in a given file.  The
// file is read again on every Reload.
func LoadTemplates(fs afero.Fs, filename string) (*TemplateCache, error) {
	return newTemplateCache(func() ([]byte, error) { return afero.ReadFile(fs, filename) })
}

func newTemplateCache(read func() ([]byte, error)) (*TemplateCache, error) {
	cache := &TemplateCache{read: read}
	//
	if err := cache.Reload(); err != nil {
		return nil, err
	}
	//
	return cache, nil
}

// Reload discards all parsed templates and parses them again from their
// source.  If this fails, the templates previously parsed remain in use.
func (p *TemplateCache) Reload() error {
	var raw map[string][]Variant
	//
	source, err := p.read()
	if err != nil {
		return err
	}
	//
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return fmt.Errorf("malformed templates: %w", err)
	}
	//
	variants := make(map[Kind][]Variant)
	//
	for name, vs := range raw {
		kind, err := ParseKind(name)
		if err != nil {
			return err
		}
		//
		variants[kind] = vs
	}
	//
	p.mux.Lock()
	defer p.mux.Unlock()
	p.variants = variants
	//
	return nil
}

// Variants returns the admissible port layouts of a given kind.
func (p *TemplateCache) Variants(kind Kind) []Variant {
	p.mux.RLock()
	defer p.mux.RUnlock()
	//
	return p.variants[kind]
}

// Check that a block with the given kind and ports fits one of the kind's
// templates.
func (p *TemplateCache) Check(kind Kind, children map[Role]Position) error {
	var roles []Role
	//
	for r := range children {
		roles = append(roles, r)
	}
	//
	for _, v := range p.Variants(kind) {
		if v.Matches(roles) {
			return nil
		}
	}
	//
	slices.Sort(roles)
	//
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	//
	return fmt.Errorf("%s has no template with ports {%s}", kind, strings.Join(names, ","))
}
