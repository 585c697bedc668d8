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

package requestcontext

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/accesscontext"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/errorhandler"
	"github.com/dadrus/reqctx/internal/request"
	"github.com/dadrus/reqctx/internal/x"
)

type Option func(*config)

type config struct {
	trustOutcomes *prometheus.CounterVec
}

// WithRegisterer enables counting of requests by whether their peer is a trusted proxy.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(c *config) {
		if registerer == nil {
			return
		}

		counter := prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reqctx",
				Name:      "requests_by_peer_total",
				Help:      "Number of requests by whether the peer is a trusted proxy.",
			},
			[]string{"peer"},
		)

		if err := registerer.Register(counter); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok { //nolint:errorlint
				counter, _ = are.ExistingCollector.(*prometheus.CounterVec)
			} else {
				panic(err)
			}
		}

		c.trustOutcomes = counter
	}
}

// New creates a RequestContext for each request and makes it available to the next handlers
// via request.FromRequest. Requests a context cannot be created for are answered by the given
// error handler.
func New(factory request.ContextFactory, eh errorhandler.ErrorHandler, opts ...Option) func(http.Handler) http.Handler {
	conf := &config{}

	for _, opt := range opts {
		opt(conf)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rc, err := factory.Create(req)
			if err != nil {
				eh.HandleError(rw, req, err)

				return
			}

			defer func() {
				if err := rc.Close(); err != nil {
					zerolog.Ctx(req.Context()).Warn().Err(err).Msg("Failed to remove temporary files")
				}
			}()

			trusted := rc.IsFromTrustedProxy()
			if conf.trustOutcomes != nil {
				conf.trustOutcomes.WithLabelValues(x.IfThenElse(trusted, "trusted", "untrusted")).Inc()
			}

			ctx := req.Context()
			clientIP, _ := rc.ClientIP()

			accesscontext.SetClientInfo(ctx, accesscontext.Client{
				IP:     clientIP,
				Scheme: rc.Scheme(),
				Host:   rc.HostName(),
			})

			zerolog.Ctx(ctx).Debug().
				Bool("_trusted_peer", trusted).
				Str("_current_url", rc.CurrentURL()).
				Msg("Request context created")

			next.ServeHTTP(rw, req.WithContext(request.WithContext(ctx, rc)))
		})
	}
}
