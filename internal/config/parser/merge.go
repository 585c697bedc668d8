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

import "reflect"

// merge merges src into dest. Maps are merged recursively. Slices are either merged element by
// element (used for environment variables addressing single elements) or replaced by src.
func merge(dest, src any, elementWise bool) any {
	if dest == nil {
		return src
	}

	if src == nil {
		return dest
	}

	if destMap, ok := dest.(map[string]any); ok {
		if srcMap, ok := src.(map[string]any); ok {
			return mergeMaps(destMap, srcMap, elementWise)
		}

		return src
	}

	if !elementWise {
		return src
	}

	destSlice, destOK := toSlice(dest)
	srcSlice, srcOK := toSlice(src)

	if destOK && srcOK {
		return mergeSlices(destSlice, srcSlice)
	}

	return src
}

func mergeMaps(dest, src map[string]any, elementWise bool) map[string]any {
	for key, val := range src {
		dest[key] = merge(dest[key], val, elementWise)
	}

	return dest
}

func mergeSlices(dest, src []any) []any {
	if len(dest) < len(src) {
		grown := make([]any, len(src))
		copy(grown, dest)
		dest = grown
	}

	for idx, val := range src {
		dest[idx] = merge(dest[idx], val, true)
	}

	return dest
}

func toSlice(val any) ([]any, bool) {
	if slice, ok := val.([]any); ok {
		return slice, true
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}

	result := make([]any, rv.Len())
	for i := range rv.Len() {
		result[i] = rv.Index(i).Interface()
	}

	return result, true
}
