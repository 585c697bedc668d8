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

package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type OperationFilter func(req *http.Request) bool

type config struct {
	service    string
	namespace  string
	registerer prometheus.Registerer
	filter     OperationFilter
}

type Option func(*config)

func WithServiceName(name string) Option {
	return func(c *config) {
		if len(name) != 0 {
			c.service = name
		}
	}
}

func WithNamespace(namespace string) Option {
	return func(c *config) {
		if len(namespace) != 0 {
			c.namespace = namespace
		}
	}
}

func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(c *config) {
		if registerer != nil {
			c.registerer = registerer
		}
	}
}

// WithOperationFilter sets a filter for requests, which should not be measured. Requests, the
// filter returns true for, are passed through.
func WithOperationFilter(filter OperationFilter) Option {
	return func(c *config) {
		if filter != nil {
			c.filter = filter
		}
	}
}

func newConfig(opts ...Option) *config {
	conf := &config{
		namespace:  "reqctx",
		registerer: prometheus.DefaultRegisterer,
		filter:     func(*http.Request) bool { return false },
	}

	for _, opt := range opts {
		opt(conf)
	}

	return conf
}
