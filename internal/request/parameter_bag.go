// Copyright 2025 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"bytes"
	"maps"
	"slices"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParameterBag is a read-only, ordered mapping of parameter names to values. Lookups of missing
// keys never modify the bag.
type ParameterBag struct {
	keys   []string
	values map[string]any
}

// NewParameterBag creates a bag from the given values. As maps have no order, the keys are
// sorted.
func NewParameterBag(values map[string]any) *ParameterBag {
	bb := newBagBuilder(len(values))

	for _, key := range slices.Sorted(maps.Keys(values)) {
		bb.set(key, values[key])
	}

	return bb.build()
}

func (b *ParameterBag) Get(key string, def any) any {
	if val, ok := b.values[key]; ok {
		return val
	}

	return def
}

// String returns the value for the given key if it is a string, or the first element if it is a
// string slice. def is returned otherwise.
func (b *ParameterBag) String(key, def string) string {
	switch val := b.values[key].(type) {
	case string:
		return val
	case []string:
		if len(val) != 0 {
			return val[0]
		}
	}

	return def
}

func (b *ParameterBag) Has(key string) bool {
	_, ok := b.values[key]

	return ok
}

func (b *ParameterBag) GetAll() map[string]any { return maps.Clone(b.values) }

func (b *ParameterBag) Keys() []string { return slices.Clone(b.keys) }

func (b *ParameterBag) Len() int { return len(b.keys) }

// MarshalJSON renders the bag as a JSON object keeping the order of the keys.
func (b *ParameterBag) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")

	for idx, key := range b.keys {
		if idx != 0 {
			buf.WriteByte(',')
		}

		rawKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		rawValue, err := json.Marshal(b.values[key])
		if err != nil {
			return nil, err
		}

		buf.Write(rawKey)
		buf.WriteByte(':')
		buf.Write(rawValue)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML renders the bag as a YAML mapping keeping the order of the keys.
func (b *ParameterBag) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*len(b.keys))} //nolint:mnd

	for _, key := range b.keys {
		value := &yaml.Node{}
		if err := value.Encode(b.values[key]); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}

	return node, nil
}

type bagBuilder struct {
	keys   []string
	values map[string]any
}

func newBagBuilder(size int) *bagBuilder {
	return &bagBuilder{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

// set stores the value. A key which is already present keeps its position.
func (bb *bagBuilder) set(key string, value any) {
	if _, ok := bb.values[key]; !ok {
		bb.keys = append(bb.keys, key)
	}

	bb.values[key] = value
}

func (bb *bagBuilder) add(key, value string) {
	if existing, ok := bb.values[key].([]string); ok {
		bb.values[key] = append(existing, value)

		return
	}

	bb.set(key, []string{value})
}

func (bb *bagBuilder) build() *ParameterBag {
	return &ParameterBag{keys: bb.keys, values: bb.values}
}
