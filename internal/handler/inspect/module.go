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
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/fxlcm"
	"github.com/dadrus/reqctx/internal/request"
)

var Module = fx.Invoke( // nolint: gochecknoglobals
	fx.Annotate(
		newLifecycleManager,
		fx.OnStart(func(ctx context.Context, lcm *fxlcm.LifecycleManager) error { return lcm.Start(ctx) }),
		fx.OnStop(func(ctx context.Context, lcm *fxlcm.LifecycleManager) error { return lcm.Stop(ctx) }),
	),
)

type lifecycleArgs struct {
	fx.In

	Config     *config.Configuration
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
	Factory    request.ContextFactory
	Shutdowner fx.Shutdowner
}

func newLifecycleManager(args lifecycleArgs) *fxlcm.LifecycleManager {
	return &fxlcm.LifecycleManager{
		ServiceName:    "Inspect",
		ServiceAddress: args.Config.Serve.Address(),
		Server:         newService(args.Config, args.Registerer, args.Logger, args.Factory),
		Logger:         args.Logger,
		Shutdowner:     args.Shutdowner,
	}
}
