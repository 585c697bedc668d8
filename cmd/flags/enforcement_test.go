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

package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcementSettings(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc                          string
		args                        []string
		enforceSecureTrustedProxies bool
	}{
		{
			uc:                          "should enforce secure settings by default",
			enforceSecureTrustedProxies: true,
		},
		{
			uc:   "should skip security settings entirely",
			args: []string{"--" + SkipAllSecurityEnforcement},
		},
		{
			uc:   "should not enforce secure trusted proxies",
			args: []string{"--" + SkipSecureTrustedProxiesEnforcement},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{Use: "test", Run: func(_ *cobra.Command, _ []string) {}}
			RegisterGlobalFlags(cmd)

			cmd.SetArgs(tc.args)

			res, err := cmd.ExecuteC()
			require.NoError(t, err)

			es := EnforcementSettings(res)
			assert.Equal(t, tc.enforceSecureTrustedProxies, es.EnforceSecureTrustedProxies)
		})
	}
}
