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

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/methodfilter"
)

// ErrLoggerFun is an adapter for promhttp Logger to log errors.
type ErrLoggerFun func(v ...any)

func (l ErrLoggerFun) Println(v ...any) { l(v...) }

func newHandler(conf config.MetricsConfig, reg prometheus.Registerer, gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(conf.Path, methodfilter.New(http.MethodGet)(
		promhttp.InstrumentMetricHandler(
			reg,
			promhttp.HandlerFor(
				gatherer,
				promhttp.HandlerOpts{
					Registry: reg,
					ErrorLog: ErrLoggerFun(func(v ...any) { logger.Error().Msg(fmt.Sprint(v...)) }),
				},
			),
		),
	))

	return mux
}
