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
	"net"
	"slices"
	"strings"

	"github.com/yl2chen/cidranger"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x/errorchain"
)

// HeaderRole identifies the information a trusted header carries.
type HeaderRole string

const (
	ClientIPHeader    HeaderRole = "client_ip"
	ClientHostHeader  HeaderRole = "client_host"
	ClientProtoHeader HeaderRole = "client_proto"
	ClientPortHeader  HeaderRole = "client_port"
)

var defaultHeaderNames = map[HeaderRole]string{ //nolint:gochecknoglobals
	ClientIPHeader:    config.DefaultClientIPHeader,
	ClientHostHeader:  config.DefaultClientHostHeader,
	ClientProtoHeader: config.DefaultClientProtoHeader,
	ClientPortHeader:  config.DefaultClientPortHeader,
}

// TrustPolicy decides whether the peer of a request is a trusted proxy and knows the headers such
// proxies use to forward information about the original client. It is immutable and can be shared
// across requests.
type TrustPolicy struct {
	proxies []string
	ranger  cidranger.Ranger
	headers map[HeaderRole]string
}

func NewTrustPolicy(conf config.TrustConfig) (*TrustPolicy, error) {
	ranger := cidranger.NewPCTrieRanger()

	for _, entry := range conf.TrustedProxies {
		ipNet, err := parseNetwork(entry)
		if err != nil {
			return nil, errorchain.NewWithMessagef(reqctx.ErrConfiguration,
				"trusted proxies entry %q is neither an IP address nor a CIDR range", entry).CausedBy(err)
		}

		if err = ranger.Insert(cidranger.NewBasicRangerEntry(*ipNet)); err != nil {
			return nil, errorchain.NewWithMessagef(reqctx.ErrInternal,
				"failed to register trusted proxies entry %q", entry).CausedBy(err)
		}
	}

	names := map[HeaderRole]string{
		ClientIPHeader:    conf.TrustedHeaders.ClientIP,
		ClientHostHeader:  conf.TrustedHeaders.ClientHost,
		ClientProtoHeader: conf.TrustedHeaders.ClientProto,
		ClientPortHeader:  conf.TrustedHeaders.ClientPort,
	}

	for role, name := range names {
		if len(strings.TrimSpace(name)) == 0 {
			names[role] = defaultHeaderNames[role]
		}
	}

	return &TrustPolicy{
		proxies: slices.Clone(conf.TrustedProxies),
		ranger:  ranger,
		headers: names,
	}, nil
}

func parseNetwork(entry string) (*net.IPNet, error) {
	entry = strings.TrimSpace(entry)

	if strings.Contains(entry, "/") {
		_, ipNet, err := net.ParseCIDR(entry)

		return ipNet, err
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, &net.ParseError{Type: "IP address", Text: entry}
	}

	if ipv4 := ip.To4(); ipv4 != nil {
		return &net.IPNet{IP: ipv4, Mask: net.CIDRMask(net.IPv4len*8, net.IPv4len*8)}, nil //nolint:mnd
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(net.IPv6len*8, net.IPv6len*8)}, nil //nolint:mnd
}

// TrustedProxies returns the configured entries. The returned slice is a copy.
func (p *TrustPolicy) TrustedProxies() []string { return slices.Clone(p.proxies) }

// TrustedHeaderName returns the name of the header used for the given role.
func (p *TrustPolicy) TrustedHeaderName(role HeaderRole) string {
	if name, ok := p.headers[role]; ok {
		return name
	}

	return defaultHeaderNames[role]
}

// TrustedHeaders returns the header names for all roles.
func (p *TrustPolicy) TrustedHeaders() map[HeaderRole]string {
	result := make(map[HeaderRole]string, len(defaultHeaderNames))

	for role := range defaultHeaderNames {
		result[role] = p.TrustedHeaderName(role)
	}

	return result
}

// IsTrusted reports whether addr is one of the trusted proxies or belongs to one of the trusted
// networks. Empty and unparsable addresses are never trusted.
func (p *TrustPolicy) IsTrusted(addr string) bool {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return false
	}

	ok, err := p.ranger.Contains(ip)

	return err == nil && ok
}

// InsecureNetworks returns the configured entries covering the whole address space.
func (p *TrustPolicy) InsecureNetworks() []string {
	var result []string

	for _, entry := range p.proxies {
		ipNet, err := parseNetwork(entry)
		if err != nil {
			continue
		}

		if ones, _ := ipNet.Mask.Size(); ones == 0 {
			result = append(result, entry)
		}
	}

	return result
}

func (p *TrustPolicy) serverVariable(role HeaderRole) string {
	return ServerVariableName(p.TrustedHeaderName(role))
}
