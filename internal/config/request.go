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

import "github.com/inhies/go-bytesize"

const (
	DefaultClientIPHeader    = "X-Forwarded-For"
	DefaultClientHostHeader  = "X-Forwarded-Host"
	DefaultClientProtoHeader = "X-Forwarded-Proto"
	DefaultClientPortHeader  = "X-Forwarded-Port"
)

// TrustConfig defines which peers are trusted to forward information about the original client
// and which headers carry that information.
type TrustConfig struct {
	TrustedProxies []string          `koanf:"trusted_proxies" validate:"enforced=secure_networks,dive,ip|cidr"`
	TrustedHeaders TrustedHeaders    `koanf:"trusted_headers"`
	BodyLimit      bytesize.ByteSize `koanf:"body_limit"`
	ServerName     string            `koanf:"server_name"`
}

// TrustedHeaders holds the names of the headers set by trusted proxies. Names can be given in the
// usual form (X-Forwarded-For) or in the server variable form (X_FORWARDED_FOR).
type TrustedHeaders struct {
	ClientIP    string `koanf:"client_ip"    validate:"omitempty,printascii"`
	ClientHost  string `koanf:"client_host"  validate:"omitempty,printascii"`
	ClientProto string `koanf:"client_proto" validate:"omitempty,printascii"`
	ClientPort  string `koanf:"client_port"  validate:"omitempty,printascii"`
}

func RequestConfiguration(configuration *Configuration) TrustConfig { return configuration.Request }
