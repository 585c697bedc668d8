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
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dadrus/reqctx/internal/x"
	"github.com/dadrus/reqctx/internal/x/httpx"
)

const (
	VarRemoteAddr     = "REMOTE_ADDR"
	VarRemotePort     = "REMOTE_PORT"
	VarServerAddr     = "SERVER_ADDR"
	VarServerName     = "SERVER_NAME"
	VarServerPort     = "SERVER_PORT"
	VarServerProtocol = "SERVER_PROTOCOL"
	VarHTTPS          = "HTTPS"
	VarHTTPHost       = "HTTP_HOST"
	VarHTTPClientIP   = "HTTP_CLIENT_IP"
	VarRequestMethod  = "REQUEST_METHOD"
	VarRequestURI     = "REQUEST_URI"
	VarQueryString    = "QUERY_STRING"
	VarRequestTime    = "REQUEST_TIME"

	httpVarPrefix = "HTTP_"
)

// Server holds the CGI style server variables of a request.
type Server struct {
	*ParameterBag
}

func newServer(req *http.Request, serverName string, now time.Time) Server {
	bb := newBagBuilder(len(req.Header) + 13) //nolint:mnd

	_, peerPort := httpx.HostPort(req.RemoteAddr)
	bb.set(VarRemoteAddr, httpx.PeerAddress(req.RemoteAddr))

	if peerPort >= 0 {
		bb.set(VarRemotePort, strconv.Itoa(peerPort))
	}

	if addr := httpx.LocalAddress(req); len(addr) != 0 {
		localHost, localPort := httpx.HostPort(addr)
		bb.set(VarServerAddr, localHost)

		if localPort >= 0 {
			bb.set(VarServerPort, strconv.Itoa(localPort))
		}
	}

	host, _ := httpx.HostPort(req.Host)
	bb.set(VarServerName, x.FirstNonEmpty(host, serverName))
	bb.set(VarServerProtocol, req.Proto)

	if req.TLS != nil {
		bb.set(VarHTTPS, "on")
	}

	bb.set(VarHTTPHost, req.Host)
	bb.set(VarRequestMethod, req.Method)
	bb.set(VarRequestURI, req.URL.EscapedPath())
	bb.set(VarQueryString, req.URL.RawQuery)
	bb.set(VarRequestTime, now.Unix())

	for _, name := range slices.Sorted(maps.Keys(req.Header)) {
		if values := req.Header[name]; len(values) != 0 {
			bb.set(ServerVariableName(name), strings.Join(values, ", "))
		}
	}

	return Server{ParameterBag: bb.build()}
}

// ServerVariableName converts a header name to the name of the server variable holding its value,
// e.g. X-Forwarded-For to HTTP_X_FORWARDED_FOR. Names already given in the underscore form, like
// X_FORWARDED_FOR, are converted to the same variable.
func ServerVariableName(header string) string {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(header), "-", "_"))
	if strings.HasPrefix(name, httpVarPrefix) {
		return name
	}

	return httpVarPrefix + name
}

func (s Server) RemoteAddress() string  { return s.String(VarRemoteAddr, "") }
func (s Server) RemotePort() string     { return s.String(VarRemotePort, "") }
func (s Server) ServerAddress() string  { return s.String(VarServerAddr, "") }
func (s Server) ServerName() string     { return s.String(VarServerName, "") }
func (s Server) ServerPort() string     { return s.String(VarServerPort, "") }
func (s Server) ServerProtocol() string { return s.String(VarServerProtocol, "") }
func (s Server) HTTPS() string          { return s.String(VarHTTPS, "") }
func (s Server) HTTPHost() string       { return s.String(VarHTTPHost, "") }
func (s Server) HTTPClientIP() string   { return s.String(VarHTTPClientIP, "") }
func (s Server) RequestMethod() string  { return s.String(VarRequestMethod, "") }
func (s Server) RequestURI() string     { return s.String(VarRequestURI, "") }
func (s Server) QueryString() string    { return s.String(VarQueryString, "") }

func (s Server) RequestTime() time.Time {
	if ts, ok := s.Get(VarRequestTime, nil).(int64); ok {
		return time.Unix(ts, 0)
	}

	return time.Time{}
}

// Header returns the value of the server variable for the given header name.
func (s Server) Header(name string) string { return s.String(ServerVariableName(name), "") }
