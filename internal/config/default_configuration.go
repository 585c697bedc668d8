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
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

const (
	defaultServePort    = 4468
	defaultMetricsPort  = 9000
	defaultProfilerPort = 10251
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 2 * time.Minute
	defaultBufferLimit  = 4 * bytesize.KB
	defaultBodyLimit    = 10 * bytesize.MB
)

func defaultConfig() Configuration {
	return Configuration{
		Serve: ServeConfig{
			Port: defaultServePort,
			Timeout: Timeout{
				Read:  defaultReadTimeout,
				Write: defaultWriteTimeout,
				Idle:  defaultIdleTimeout,
			},
			BufferLimit: BufferLimit{
				Read:  defaultBufferLimit,
				Write: defaultBufferLimit,
			},
		},
		Log: LoggingConfig{
			Level:  zerolog.ErrorLevel,
			Format: LogTextFormat,
		},
		Request: TrustConfig{
			TrustedProxies: []string{"127.0.0.1"},
			TrustedHeaders: TrustedHeaders{
				ClientIP:    DefaultClientIPHeader,
				ClientHost:  DefaultClientHostHeader,
				ClientProto: DefaultClientProtoHeader,
				ClientPort:  DefaultClientPortHeader,
			},
			BodyLimit: defaultBodyLimit,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    defaultMetricsPort,
			Path:    "/metrics",
		},
		Profiling: ProfilingConfig{
			Host: "127.0.0.1",
			Port: defaultProfilerPort,
		},
	}
}
