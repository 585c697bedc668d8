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
	"regexp"
	"strconv"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x/errorchain"
	"github.com/dadrus/reqctx/internal/x/stringx"
)

const (
	keySuffixSeparator = "#"
	maxSliceIndex      = 1024
)

var isNumRegex = regexp.MustCompile(`^\d+$`) //nolint:gochecknoglobals

// toRealType lets the yaml parser guess the type of the given value, so that "true" becomes a bool
// and "10" an int.
func toRealType(val string) any {
	var parsed map[string]any

	if err := yaml.Unmarshal(stringx.ToBytes("val: "+val), &parsed); err != nil {
		return val
	}

	return parsed["val"]
}

// convert turns keys with numeric segments, like "request.trusted_proxies.1", into the key
// of the slice ("request.trusted_proxies") and a sparse slice holding the value at the given
// position. Segments following the index are converted into nested maps.
func convert(key string, val any) (string, any) {
	parts := strings.Split(key, ".")

	for idx, part := range parts {
		if idx == 0 || !isNumRegex.MatchString(part) {
			continue
		}

		pos, err := strconv.Atoi(part)
		if err != nil || pos > maxSliceIndex {
			return key, val
		}

		slice := make([]any, pos+1)
		postfix := strings.Join(parts[idx+1:], ".")

		if len(postfix) == 0 {
			slice[pos] = val
		} else {
			newKey, newVal := convert(postfix, val)
			slice[pos] = maps.Unflatten(map[string]any{newKey: newVal}, ".")
		}

		return strings.Join(parts[:idx], "."), slice
	}

	return key, val
}

// normalizeKey converts an environment variable name to a configuration key. A single "_"
// separates hierarchy levels, a double "__" stands for an "_" in the key name.
func normalizeKey(key, prefix string) string {
	tmp := strings.ToLower(strings.TrimPrefix(key, prefix))
	tmp = strings.ReplaceAll(tmp, "__", "\x00")
	tmp = strings.ReplaceAll(tmp, "_", ".")

	return strings.ReplaceAll(tmp, "\x00", "_")
}

func koanfFromEnv(prefix string) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	provider := env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, val string) (string, any) {
			newKey, newVal := convert(normalizeKey(key, prefix), toRealType(val))

			// several variables may address elements of the same slice. The suffix keeps
			// them apart until they are merged.
			return newKey + keySuffixSeparator + key, newVal
		},
	})

	err := parser.Load(provider, nil,
		koanf.WithMergeFunc(func(src, dest map[string]any) error {
			collapsed, _ := collapse(src).(map[string]any)
			mergeMaps(dest, collapsed, true)

			return nil
		}),
	)
	if err != nil {
		return nil, errorchain.NewWithMessage(reqctx.ErrConfiguration,
			"failed to parse environment variables to config").CausedBy(err)
	}

	return parser, nil
}

// collapse removes the key suffixes introduced by koanfFromEnv and merges the values of the keys
// which are equal without their suffixes.
func collapse(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		result := make(map[string]any, len(typed))

		for key, value := range typed {
			base, _, _ := strings.Cut(key, keySuffixSeparator)
			result[base] = merge(result[base], collapse(value), true)
		}

		return result
	case []any:
		result := make([]any, len(typed))

		for idx, value := range typed {
			result[idx] = collapse(value)
		}

		return result
	default:
		return val
	}
}
