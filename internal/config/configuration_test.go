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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/validation"
)

func newTestValidator(t *testing.T, enforce bool) validation.Validator {
	t.Helper()

	es := EnforcementSettings{EnforceSecureTrustedProxies: enforce}

	validator, err := validation.NewValidator(
		validation.WithTagValidator(es),
		validation.WithErrorTranslator(es),
	)
	require.NoError(t, err)

	return validator
}

func writeConfigFile(t *testing.T, content string) ConfigurationPath {
	t.Helper()

	fileName := filepath.Join(t.TempDir(), "reqctx.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o600))

	return ConfigurationPath(fileName)
}

func TestNewConfigurationWithDefaults(t *testing.T) {
	t.Parallel()

	// GIVEN
	configFile := writeConfigFile(t, "")

	// WHEN
	conf, err := NewConfiguration("DEFAULTSTEST_", configFile, newTestValidator(t, true))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, ":4468", conf.Serve.Address())
	assert.Equal(t, 5*time.Second, conf.Serve.Timeout.Read)
	assert.Equal(t, 10*time.Second, conf.Serve.Timeout.Write)
	assert.Equal(t, 2*time.Minute, conf.Serve.Timeout.Idle)
	assert.Equal(t, 4*bytesize.KB, conf.Serve.BufferLimit.Read)
	assert.Nil(t, conf.Serve.CORS)
	assert.False(t, conf.Serve.Respond.Verbose)
	assert.Equal(t, zerolog.ErrorLevel, conf.Log.Level)
	assert.Equal(t, LogTextFormat, conf.Log.Format)
	assert.Equal(t, []string{"127.0.0.1"}, conf.Request.TrustedProxies)
	assert.Equal(t, DefaultClientIPHeader, conf.Request.TrustedHeaders.ClientIP)
	assert.Equal(t, DefaultClientHostHeader, conf.Request.TrustedHeaders.ClientHost)
	assert.Equal(t, DefaultClientProtoHeader, conf.Request.TrustedHeaders.ClientProto)
	assert.Equal(t, DefaultClientPortHeader, conf.Request.TrustedHeaders.ClientPort)
	assert.Equal(t, 10*bytesize.MB, conf.Request.BodyLimit)
	assert.True(t, conf.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9000", conf.Metrics.Address())
	assert.Equal(t, "/metrics", conf.Metrics.Path)
	assert.False(t, conf.Profiling.Enabled)
	assert.Equal(t, "127.0.0.1:10251", conf.Profiling.Address())
}

func TestNewConfiguration(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc      string
		config  string
		enforce bool
		assert  func(t *testing.T, err error, conf *Configuration)
	}{
		{
			uc: "valid configuration",
			config: `
serve:
  port: 8080
  timeout:
    read: 1m30s
  cors:
    allowed_origins:
      - example.com
    max_age: 1m
  respond:
    verbose: true
log:
  level: debug
  format: gelf
request:
  trusted_proxies:
    - 10.0.0.0/8
    - 192.168.1.1
  trusted_headers:
    client_ip: X_REAL_IP
  body_limit: 1MB
  server_name: example.com
metrics:
  enabled: false
`,
			enforce: true,
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, 8080, conf.Serve.Port)
				assert.Equal(t, 90*time.Second, conf.Serve.Timeout.Read)
				assert.Equal(t, 10*time.Second, conf.Serve.Timeout.Write)
				require.NotNil(t, conf.Serve.CORS)
				assert.Equal(t, []string{"example.com"}, conf.Serve.CORS.AllowedOrigins)
				assert.Equal(t, time.Minute, conf.Serve.CORS.MaxAge)
				assert.True(t, conf.Serve.Respond.Verbose)
				assert.Equal(t, zerolog.DebugLevel, conf.Log.Level)
				assert.Equal(t, LogGelfFormat, conf.Log.Format)
				assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, conf.Request.TrustedProxies)
				assert.Equal(t, "X_REAL_IP", conf.Request.TrustedHeaders.ClientIP)
				assert.Equal(t, DefaultClientHostHeader, conf.Request.TrustedHeaders.ClientHost)
				assert.Equal(t, bytesize.MB, conf.Request.BodyLimit)
				assert.Equal(t, "example.com", conf.Request.ServerName)
				assert.False(t, conf.Metrics.Enabled)
			},
		},
		{
			uc:     "no trusted proxies",
			config: "request:\n  trusted_proxies: []\n",
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Empty(t, conf.Request.TrustedProxies)
			},
		},
		{
			uc:     "unknown property",
			config: "foo: bar\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrConfiguration)
			},
		},
		{
			uc:     "invalid trusted proxy entry",
			config: "request:\n  trusted_proxies:\n    - foo\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrConfiguration)
				assert.Contains(t, err.Error(), "must contain IP addresses or CIDR ranges only")
			},
		},
		{
			uc:      "insecure trusted proxies with enforcement",
			config:  "request:\n  trusted_proxies:\n    - 0.0.0.0/0\n",
			enforce: true,
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrConfiguration)
				assert.Contains(t, err.Error(), "'trusted_proxies' contains insecure networks")
			},
		},
		{
			uc:     "insecure trusted proxies without enforcement",
			config: "request:\n  trusted_proxies:\n    - 0.0.0.0/0\n",
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, []string{"0.0.0.0/0"}, conf.Request.TrustedProxies)
			},
		},
		{
			uc:     "invalid body limit",
			config: "request:\n  body_limit: lots\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrConfiguration)
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			configFile := writeConfigFile(t, tc.config)

			// WHEN
			conf, err := NewConfiguration("CONFIGTEST_", configFile, newTestValidator(t, tc.enforce))

			// THEN
			tc.assert(t, err, conf)
		})
	}
}

func TestNewConfigurationWithEnvOverrides(t *testing.T) {
	// GIVEN
	configFile := writeConfigFile(t, "request:\n  trusted_proxies:\n    - 10.0.0.1\n    - 10.0.0.2\n")

	t.Setenv("ENVOVERRIDETEST_REQUEST_TRUSTED__PROXIES_1", "172.16.0.0/12")
	t.Setenv("ENVOVERRIDETEST_REQUEST_BODY__LIMIT", "2KB")
	t.Setenv("ENVOVERRIDETEST_LOG_LEVEL", "warn")

	// WHEN
	conf, err := NewConfiguration("ENVOVERRIDETEST_", configFile, newTestValidator(t, true))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, conf.Request.TrustedProxies)
	assert.Equal(t, 2*bytesize.KB, conf.Request.BodyLimit)
	assert.Equal(t, zerolog.WarnLevel, conf.Log.Level)
}
