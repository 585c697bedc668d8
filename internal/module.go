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

package internal

import (
	"go.uber.org/fx"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/metrics"
	"github.com/dadrus/reqctx/internal/handler/profiling"
	"github.com/dadrus/reqctx/internal/prometheus"
	"github.com/dadrus/reqctx/internal/request"
)

// nolint
var Module = fx.Options(
	fx.Provide(
		config.RequestConfiguration,
		config.MetricsConfiguration,
		config.ProfilingConfiguration,
	),
	prometheus.Module,
	request.Module,
	metrics.Module,
	profiling.Module,
)
