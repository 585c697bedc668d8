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

package config

import (
	"reflect"
	"slices"
)

var InsecureNetworks = []string{ // nolint: gochecknoglobals
	"0.0.0.0/0",
	"0/0",
	"0000:0000:0000:0000:0000:0000:0000:0000/0",
	"::/0",
}

type EnforcementSettings struct {
	EnforceSecureTrustedProxies bool
}

func (v EnforcementSettings) Tag() string { return "enforced" }

func (v EnforcementSettings) Validate(param string, field reflect.Value) bool {
	switch param {
	case "secure_networks":
		if !v.EnforceSecureTrustedProxies {
			return true
		}

		for i := range field.Len() {
			if slices.Contains(InsecureNetworks, field.Index(i).String()) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func (v EnforcementSettings) AlwaysValidate() bool { return true }

func (v EnforcementSettings) MessageTemplate() string { return "{0} {1}" }

func (v EnforcementSettings) ErrorMessage(param string) string {
	switch param {
	case "secure_networks":
		return "contains insecure networks"
	default:
		return "parameter is unknown"
	}
}
