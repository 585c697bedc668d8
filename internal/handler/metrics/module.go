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
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/fxlcm"
)

const readHeaderTimeout = 5 * time.Second

var Module = fx.Invoke( // nolint: gochecknoglobals
	fx.Annotate(
		newLifecycleManager,
		fx.OnStart(func(ctx context.Context, lcm lifecycleManager) error { return lcm.Start(ctx) }),
		fx.OnStop(func(ctx context.Context, lcm lifecycleManager) error { return lcm.Stop(ctx) }),
	),
)

type lifecycleManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type noopManager struct{}

func (noopManager) Start(context.Context) error { return nil }
func (noopManager) Stop(context.Context) error  { return nil }

type lifecycleArgs struct {
	fx.In

	Config     config.MetricsConfig
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     zerolog.Logger
	Shutdowner fx.Shutdowner
}

func newLifecycleManager(args lifecycleArgs) lifecycleManager {
	if !args.Config.Enabled {
		args.Logger.Info().Msg("Metrics service disabled")

		return noopManager{}
	}

	return &fxlcm.LifecycleManager{
		ServiceName:    "Metrics",
		ServiceAddress: args.Config.Address(),
		Server: &http.Server{
			Handler:           newHandler(args.Config, args.Registerer, args.Gatherer, args.Logger),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		Logger:     args.Logger,
		Shutdowner: args.Shutdowner,
	}
}
