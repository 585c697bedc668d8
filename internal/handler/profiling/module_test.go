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

package profiling

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/fxlcm"
	"github.com/dadrus/reqctx/internal/x/testsupport"
)

func TestNewLifecycleManager(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc      string
		enabled bool
		assert  func(t *testing.T, lm lifecycleManager)
	}{
		{
			uc: "profiling disabled",
			assert: func(t *testing.T, lm lifecycleManager) {
				t.Helper()

				require.IsType(t, noopManager{}, lm)
				require.NoError(t, lm.Start(t.Context()))
				require.NoError(t, lm.Stop(t.Context()))
			},
		},
		{
			uc:      "profiling enabled",
			enabled: true,
			assert: func(t *testing.T, lm lifecycleManager) {
				t.Helper()

				require.IsType(t, &fxlcm.LifecycleManager{}, lm)
				require.NoError(t, lm.Start(t.Context()))
				require.NoError(t, lm.Stop(t.Context()))
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			port, err := testsupport.GetFreePort()
			require.NoError(t, err)

			conf := config.ProfilingConfig{Enabled: tc.enabled, Host: "127.0.0.1", Port: port}

			// WHEN
			lm := newLifecycleManager(lifecycleArgs{Config: conf, Logger: zerolog.Nop()})

			// THEN
			tc.assert(t, lm)
		})
	}
}
