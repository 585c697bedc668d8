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

package httpx

import (
	"net"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
)

// IPFromHostPort returns the host part of a "host:port" pair with IPv6 brackets removed.
// An empty string is returned if the value is not a valid "host:port" pair.
func IPFromHostPort(hp string) string {
	host, _, err := net.SplitHostPort(hp)
	if err != nil {
		return ""
	}

	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}

// PeerAddress is like IPFromHostPort, but returns the value as is, if it does not carry a port.
// http.Request.RemoteAddr has no defined format, so both forms are seen in practice.
func PeerAddress(remoteAddr string) string {
	if ip := IPFromHostPort(remoteAddr); len(ip) != 0 {
		return ip
	}

	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(remoteAddr), "["), "]")
}

// HostPort splits hp into host and port. The port is -1 if hp has no port or the port is
// not a valid one.
func HostPort(hp string) (string, int) {
	port := -1

	if strings.HasPrefix(hp, "[") {
		addrEnd := strings.LastIndex(hp, "]")
		if addrEnd < 0 {
			return "", port
		}

		if !strings.Contains(hp[addrEnd:], ":") {
			return hp[1:addrEnd], port
		}
	} else if !strings.Contains(hp, ":") {
		return hp, port
	}

	host, pStr, err := net.SplitHostPort(hp)
	if err != nil {
		return host, port
	}

	return host, ParsePort(pStr)
}

// ParsePort converts the given value to a port number. -1 is returned for anything which is not
// a number in the range of 0-65535.
func ParsePort(value string) int {
	val, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16)
	if err != nil {
		return -1
	}

	port, err := safecast.ToInt(val)
	if err != nil {
		return -1
	}

	return port
}

// FirstListElement returns the leftmost element of a comma separated header value, like the
// original client in "X-Forwarded-For: client, proxy1, proxy2".
func FirstListElement(value string) string {
	first, _, _ := strings.Cut(value, ",")

	return strings.TrimSpace(first)
}
