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

package inspect

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/accesslog"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/dump"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/errorhandler"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/logger"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/methodfilter"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/passthrough"
	prometheus2 "github.com/dadrus/reqctx/internal/handler/middleware/http/prometheus"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/recovery"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/requestcontext"
	"github.com/dadrus/reqctx/internal/request"
	"github.com/dadrus/reqctx/internal/x"
	"github.com/dadrus/reqctx/internal/x/loggeradapter"
)

func newService(
	conf *config.Configuration,
	reg prometheus.Registerer,
	log zerolog.Logger,
	factory request.ContextFactory,
) *http.Server {
	cfg := conf.Serve
	eh := errorhandler.New(errorhandler.WithVerboseErrors(cfg.Respond.Verbose))
	opFilter := func(req *http.Request) bool { return req.URL.Path == EndpointHealth }

	mux := http.NewServeMux()
	mux.Handle(EndpointHealth, methodfilter.New(http.MethodGet)(http.HandlerFunc(health)))
	mux.Handle("/", alice.New(
		methodfilter.New(
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		),
		requestcontext.New(
			factory,
			eh,
			x.IfThenElseExec(conf.Metrics.Enabled,
				func() []requestcontext.Option { return []requestcontext.Option{requestcontext.WithRegisterer(reg)} },
				func() []requestcontext.Option { return nil },
			)...,
		),
	).Then(newHandler(eh)))

	hc := alice.New(
		accesslog.New(log),
		logger.New(log),
		dump.New(),
		recovery.New(eh),
		x.IfThenElseExec(conf.Metrics.Enabled,
			func() func(http.Handler) http.Handler {
				return prometheus2.New(
					prometheus2.WithServiceName("inspect"),
					prometheus2.WithRegisterer(reg),
					prometheus2.WithOperationFilter(opFilter),
				)
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
		x.IfThenElseExec(cfg.CORS != nil,
			func() func(http.Handler) http.Handler {
				return cors.New(
					cors.Options{
						AllowedOrigins:   cfg.CORS.AllowedOrigins,
						AllowedMethods:   cfg.CORS.AllowedMethods,
						AllowedHeaders:   cfg.CORS.AllowedHeaders,
						AllowCredentials: cfg.CORS.AllowCredentials,
						ExposedHeaders:   cfg.CORS.ExposedHeaders,
						MaxAge:           int(cfg.CORS.MaxAge.Seconds()),
					},
				).Handler
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
	).Then(mux)

	return &http.Server{
		Handler:        hc,
		Addr:           cfg.Address(),
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		MaxHeaderBytes: int(cfg.BufferLimit.Read),
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}
}
