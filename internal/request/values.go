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
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
)

const arrayKeySuffix = "[]"

// parseValues parses an url encoded query or form body. Keys keep the order of their first
// occurrence. For repeated keys the last value wins, unless the key ends with "[]". The values of
// such keys are collected in a string slice stored under the key without the suffix.
func parseValues(raw string) *ParameterBag {
	bb := newBagBuilder(strings.Count(raw, "&") + 1)

	for len(raw) != 0 {
		var pair string

		pair, raw, _ = strings.Cut(raw, "&")
		if len(pair) == 0 || strings.Contains(pair, ";") {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil || len(key) == 0 {
			continue
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}

		if name, isArray := strings.CutSuffix(key, arrayKeySuffix); isArray && len(name) != 0 {
			bb.add(name, value)
		} else {
			bb.set(key, value)
		}
	}

	return bb.build()
}

// valuesBag converts already parsed values, like the ones of a multipart form, into a bag with
// sorted keys, applying the same rules for array keys as parseValues.
func valuesBag(values map[string][]string) *ParameterBag {
	bb := newBagBuilder(len(values))

	for _, key := range slices.Sorted(maps.Keys(values)) {
		vals := values[key]

		if name, isArray := strings.CutSuffix(key, arrayKeySuffix); isArray && len(name) != 0 {
			for _, val := range vals {
				bb.add(name, val)
			}
		} else if len(vals) != 0 {
			bb.set(key, vals[len(vals)-1])
		}
	}

	return bb.build()
}

// headersBag holds the request headers by their canonical names, sorted. Multiple values of the
// same header are joined by ", ".
func headersBag(req *http.Request) *ParameterBag {
	values := make(map[string]string, len(req.Header)+1)

	for name, vals := range req.Header {
		if len(vals) != 0 {
			values[http.CanonicalHeaderKey(name)] = strings.Join(vals, ", ")
		}
	}

	// net/http moves the Host header out of the header map
	if _, ok := values["Host"]; !ok && len(req.Host) != 0 {
		values["Host"] = req.Host
	}

	bb := newBagBuilder(len(values))

	for _, name := range slices.Sorted(maps.Keys(values)) {
		bb.set(name, values[name])
	}

	return bb.build()
}

func envBag(environ []string) *ParameterBag {
	bb := newBagBuilder(len(environ))

	for _, entry := range environ {
		if key, value, ok := strings.Cut(entry, "="); ok && len(key) != 0 {
			bb.set(key, value)
		}
	}

	return bb.build()
}

func processEnvBag() *ParameterBag { return envBag(os.Environ()) }
