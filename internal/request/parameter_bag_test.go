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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParameterBagGet(t *testing.T) {
	t.Parallel()

	// GIVEN
	bag := NewParameterBag(map[string]any{"foo": "bar", "list": []string{"a", "b"}})

	// WHEN
	val := bag.Get("missing", "d")

	// THEN
	assert.Equal(t, "d", val)
	assert.Nil(t, bag.Get("missing", nil))
	assert.False(t, bag.Has("missing"))
	assert.Equal(t, 2, bag.Len())
	assert.Equal(t, "bar", bag.Get("foo", nil))
	assert.Equal(t, []string{"a", "b"}, bag.Get("list", nil))
}

func TestParameterBagString(t *testing.T) {
	t.Parallel()

	bag := NewParameterBag(map[string]any{
		"str":   "value",
		"list":  []string{"first", "second"},
		"empty": []string{},
		"num":   42,
	})

	for _, tc := range []struct {
		key string
		exp string
	}{
		{key: "str", exp: "value"},
		{key: "list", exp: "first"},
		{key: "empty", exp: "def"},
		{key: "num", exp: "def"},
		{key: "missing", exp: "def"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.exp, bag.String(tc.key, "def"))
		})
	}
}

func TestParameterBagKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	// GIVEN
	bb := newBagBuilder(3)
	bb.set("zeta", 1)
	bb.set("alpha", 2)
	bb.add("mid", "x")
	bb.set("zeta", 3)
	bb.add("mid", "y")

	// WHEN
	bag := bb.build()

	// THEN
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, bag.Keys())
	assert.Equal(t, 3, bag.Get("zeta", nil))
	assert.Equal(t, []string{"x", "y"}, bag.Get("mid", nil))

	raw, err := bag.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":3,"alpha":2,"mid":["x","y"]}`, string(raw))
}

func TestParameterBagReturnsCopies(t *testing.T) {
	t.Parallel()

	// GIVEN
	bag := NewParameterBag(map[string]any{"b": "2", "a": "1"})

	// WHEN
	all := bag.GetAll()
	all["c"] = "3"

	keys := bag.Keys()
	keys[0] = "changed"

	// THEN
	assert.Equal(t, []string{"a", "b"}, bag.Keys())
	assert.False(t, bag.Has("c"))
	assert.Equal(t, 2, bag.Len())
}

func TestEmptyParameterBagMarshalJSON(t *testing.T) {
	t.Parallel()

	// WHEN
	raw, err := newBagBuilder(0).build().MarshalJSON()

	// THEN
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestParameterBagMarshalYAML(t *testing.T) {
	t.Parallel()

	// GIVEN
	bb := newBagBuilder(3)
	bb.set("zeta", 1)
	bb.set("alpha", "b")
	bb.add("mid", "x")
	bb.add("mid", "y")

	// WHEN
	raw, err := yaml.Marshal(bb.build())

	// THEN
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "zeta: 1\nalpha: b\nmid:"))

	var decoded map[string]any

	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]any{"zeta": 1, "alpha": "b", "mid": []any{"x", "y"}}, decoded)
}
