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

package listener

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x/testsupport"
)

func TestCreateNewListener(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc      string
		network string
		host    string
		assert  func(t *testing.T, err error, ln net.Listener, port string)
	}{
		{
			uc:      "creation fails",
			network: "foo",
			host:    "127.0.0.1",
			assert: func(t *testing.T, err error, _ net.Listener, _ string) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrInternal)
				assert.Contains(t, err.Error(), "failed creating listener")
			},
		},
		{
			uc:      "tcp listener",
			network: "tcp",
			host:    "127.0.0.1",
			assert: func(t *testing.T, err error, ln net.Listener, port string) {
				t.Helper()

				require.NoError(t, err)
				require.NotNil(t, ln)

				assert.Equal(t, "tcp", ln.Addr().Network())
				assert.Equal(t, "127.0.0.1:"+port, ln.Addr().String())
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			port, err := testsupport.GetFreePort()
			require.NoError(t, err)

			// WHEN
			ln, err := New(tc.network, net.JoinHostPort(tc.host, strconv.Itoa(port)))

			// THEN
			defer func() {
				if ln != nil {
					ln.Close()
				}
			}()

			tc.assert(t, err, ln, strconv.Itoa(port))
		})
	}
}
