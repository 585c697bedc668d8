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
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/reqctx/internal/config"
)

var Module = fx.Provide( // nolint: gochecknoglobals
	newTrustPolicy,
	newContextFactory,
)

func newTrustPolicy(conf config.TrustConfig, logger zerolog.Logger) (*TrustPolicy, error) {
	policy, err := NewTrustPolicy(conf)
	if err != nil {
		logger.Error().Err(err).Msg("Failed creating trust policy")

		return nil, err
	}

	if insecure := policy.InsecureNetworks(); len(insecure) != 0 {
		logger.Warn().Strs("_networks", insecure).
			Msg("Trusted proxies contain networks covering the whole address space. Forwarded headers of any peer are trusted")
	}

	logger.Info().
		Strs("_trusted_proxies", policy.TrustedProxies()).
		Msg("Trust policy configured")

	return policy, nil
}

func newContextFactory(policy *TrustPolicy, conf config.TrustConfig) ContextFactory {
	return NewContextFactory(policy,
		WithBodyLimit(conf.BodyLimit),
		WithServerName(conf.ServerName),
	)
}
