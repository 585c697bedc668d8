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
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelService = "service"
	labelMethod  = "method"
	labelCode    = "code"
)

// New returns a middleware measuring the requests in flight, the number of handled requests and
// their duration. Collectors already registered with the same registerer are reused, so that
// several services can share them.
func New(opts ...Option) func(http.Handler) http.Handler {
	conf := newConfig(opts...)

	inFlight := register(conf.registerer, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: conf.namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		},
		[]string{labelService},
	))

	requests := register(conf.registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: conf.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of handled HTTP requests.",
		},
		[]string{labelService, labelMethod, labelCode},
	))

	duration := register(conf.registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: conf.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{labelService, labelMethod, labelCode},
	))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if conf.filter(req) {
				next.ServeHTTP(rw, req)

				return
			}

			gauge := inFlight.WithLabelValues(conf.service)
			gauge.Inc()

			defer gauge.Dec()

			metrics := httpsnoop.CaptureMetrics(next, rw, req)

			labels := []string{conf.service, methodLabel(req.Method), strconv.Itoa(metrics.Code)}

			requests.WithLabelValues(labels...).Inc()
			duration.WithLabelValues(labels...).Observe(metrics.Duration.Seconds())
		})
	}
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}

		panic(err)
	}

	return collector
}

func methodLabel(method string) string {
	method = strings.ToUpper(method)

	switch method {
	case http.MethodConnect,
		http.MethodDelete,
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPatch,
		http.MethodPost,
		http.MethodPut,
		http.MethodTrace:
		return method
	default:
		return "_OTHER"
	}
}
