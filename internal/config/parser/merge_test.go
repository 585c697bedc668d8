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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc          string
		dest        any
		src         any
		elementWise bool
		expected    any
	}{
		{uc: "nil dest", dest: nil, src: "foo", expected: "foo"},
		{uc: "nil src", dest: "foo", src: nil, expected: "foo"},
		{uc: "scalar replaced", dest: 1, src: 2, expected: 2},
		{
			uc:       "maps merged",
			dest:     map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			src:      map[string]any{"b": map[string]any{"d": 3}},
			expected: map[string]any{"a": 1, "b": map[string]any{"c": 2, "d": 3}},
		},
		{uc: "map replaced by scalar", dest: map[string]any{"a": 1}, src: "foo", expected: "foo"},
		{uc: "slice replaced", dest: []any{"a", "b"}, src: []any{"c"}, expected: []any{"c"}},
		{
			uc: "slice merged element wise", elementWise: true,
			dest: []any{"a", "b"}, src: []any{nil, "c", "d"}, expected: []any{"a", "c", "d"},
		},
		{
			uc: "typed slice merged element wise", elementWise: true,
			dest: []string{"a", "b"}, src: []any{"c"}, expected: []any{"c", "b"},
		},
		{
			uc: "maps in slices merged", elementWise: true,
			dest:     []any{map[string]any{"a": 1}},
			src:      []any{map[string]any{"b": 2}},
			expected: []any{map[string]any{"a": 1, "b": 2}},
		},
		{uc: "slice and scalar", elementWise: true, dest: []any{"a"}, src: "b", expected: "b"},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, merge(tc.dest, tc.src, tc.elementWise))
		})
	}
}
