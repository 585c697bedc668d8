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
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x"
	"github.com/dadrus/reqctx/internal/x/errorchain"
	"github.com/dadrus/reqctx/internal/x/httpx"
)

const (
	defaultHTTPPort  = 80
	defaultHTTPSPort = 443
)

// RequestContext wraps the state of a single request and derives facts about the original client,
// taking headers set by trusted proxies into account.
type RequestContext struct {
	query   *ParameterBag
	post    *ParameterBag
	payload *ParameterBag
	headers *ParameterBag
	env     *ParameterBag
	server  Server
	files   Files
	policy  *TrustPolicy
	form    *multipart.Form

	mut        sync.Mutex
	currentURL string
}

func (rc *RequestContext) Query(key string, def any) any   { return rc.query.Get(key, def) }
func (rc *RequestContext) Post(key string, def any) any    { return rc.post.Get(key, def) }
func (rc *RequestContext) Payload(key string, def any) any { return rc.payload.Get(key, def) }
func (rc *RequestContext) Env(key string, def any) any     { return rc.env.Get(key, def) }

// Header returns the value of the given header. The name is canonicalized, so "x-request-id" and
// "X-Request-Id" refer to the same header.
func (rc *RequestContext) Header(name string, def any) any {
	return rc.headers.Get(http.CanonicalHeaderKey(name), def)
}

func (rc *RequestContext) QueryBag() *ParameterBag   { return rc.query }
func (rc *RequestContext) PostBag() *ParameterBag    { return rc.post }
func (rc *RequestContext) PayloadBag() *ParameterBag { return rc.payload }
func (rc *RequestContext) HeaderBag() *ParameterBag  { return rc.headers }
func (rc *RequestContext) EnvBag() *ParameterBag     { return rc.env }
func (rc *RequestContext) Server() Server            { return rc.server }
func (rc *RequestContext) FileBag() Files            { return rc.files }

func (rc *RequestContext) File(name string) (*File, error) { return rc.files.File(name) }

func (rc *RequestContext) FileAt(name string, offset int) (*File, error) {
	return rc.files.FileAt(name, offset)
}

func (rc *RequestContext) TrustedProxies() []string { return rc.policy.TrustedProxies() }

func (rc *RequestContext) TrustedHeaders() map[HeaderRole]string { return rc.policy.TrustedHeaders() }

// IsFromTrustedProxy reports whether the peer of the request is a trusted proxy.
func (rc *RequestContext) IsFromTrustedProxy() bool {
	addr := rc.server.RemoteAddress()

	return len(addr) != 0 && rc.policy.IsTrusted(addr)
}

func (rc *RequestContext) trustedHeader(role HeaderRole) string {
	if !rc.IsFromTrustedProxy() {
		return ""
	}

	return strings.TrimSpace(rc.server.String(rc.policy.serverVariable(role), ""))
}

// ClientIP returns the address of the original client. Headers carrying it are only considered if
// the request comes from a trusted proxy. Otherwise, the address of the peer is returned.
func (rc *RequestContext) ClientIP() (string, error) {
	if ip := httpx.FirstListElement(rc.trustedHeader(ClientIPHeader)); len(ip) != 0 {
		return ip, nil
	}

	if rc.IsFromTrustedProxy() {
		if ip := httpx.FirstListElement(rc.server.HTTPClientIP()); len(ip) != 0 {
			return ip, nil
		}
	}

	if addr := rc.server.RemoteAddress(); len(addr) != 0 {
		return addr, nil
	}

	return "", errorchain.NewWithMessage(reqctx.ErrRequest, "unable to get client ip address").
		CausedBy(reqctx.ErrClientIPUnavailable)
}

func (rc *RequestContext) IsRequestSecured() bool {
	protocol := rc.server.ServerProtocol()
	if proto := httpx.FirstListElement(rc.trustedHeader(ClientProtoHeader)); len(proto) != 0 {
		protocol = proto
	}

	return isSecureFlag(protocol) || isSecureFlag(rc.server.HTTPS())
}

func isSecureFlag(value string) bool {
	switch strings.ToLower(value) {
	case "https", "on", "1":
		return true
	default:
		return false
	}
}

func (rc *RequestContext) Scheme() string {
	return x.IfThenElse(rc.IsRequestSecured(), "https", "http")
}

// HostName returns the lower-cased name of the host the client addressed, without port.
func (rc *RequestContext) HostName() string {
	host := rc.server.ServerName()

	if fwdHost, _ := httpx.HostPort(httpx.FirstListElement(rc.trustedHeader(ClientHostHeader))); len(fwdHost) != 0 {
		host = fwdHost
	}

	return strings.ToLower(host)
}

// ConnectionPort returns the port the client connected to. A forwarded port, or the port of a
// forwarded host, is used if the request comes from a trusted proxy. Otherwise, the port of the
// Host header is used, with 80 as fallback.
func (rc *RequestContext) ConnectionPort() int {
	if port := httpx.ParsePort(httpx.FirstListElement(rc.trustedHeader(ClientPortHeader))); port > 0 {
		return port
	}

	if fwdHost := httpx.FirstListElement(rc.trustedHeader(ClientHostHeader)); len(fwdHost) != 0 {
		if _, port := httpx.HostPort(fwdHost); port > 0 {
			return port
		}

		// the port of the Host header belongs to the last hop
		return x.IfThenElse(rc.IsRequestSecured(), defaultHTTPSPort, defaultHTTPPort)
	}

	if _, port := httpx.HostPort(rc.server.HTTPHost()); port > 0 {
		return port
	}

	return defaultHTTPPort
}

// CurrentURL returns the URL the client requested. The value is computed once and cached.
func (rc *RequestContext) CurrentURL() string {
	rc.mut.Lock()
	defer rc.mut.Unlock()

	if len(rc.currentURL) == 0 {
		rc.currentURL = rc.buildCurrentURL()
	}

	return rc.currentURL
}

func (rc *RequestContext) CurrentURLObject() (*url.URL, error) {
	value := rc.CurrentURL()

	result, err := url.Parse(value)
	if err != nil {
		return nil, errorchain.NewWithMessagef(reqctx.ErrArgument, "%q is not a valid url", value).CausedBy(err)
	}

	return result, nil
}

// SetCurrentURL replaces the cached current URL.
func (rc *RequestContext) SetCurrentURL(value string) {
	rc.mut.Lock()
	defer rc.mut.Unlock()

	rc.currentURL = value
}

func (rc *RequestContext) buildCurrentURL() string {
	var sb strings.Builder

	sb.WriteString(rc.Scheme())
	sb.WriteString("://")

	host := rc.HostName()
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	sb.WriteString(host)

	if port := rc.ConnectionPort(); port != defaultHTTPPort && port != defaultHTTPSPort {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(port))
	}

	sb.WriteString(rc.server.RequestURI())

	if query := rc.server.QueryString(); len(query) != 0 {
		sb.WriteString("?")
		sb.WriteString(query)
	}

	return sb.String()
}

func (rc *RequestContext) RequestMethod() string { return rc.server.RequestMethod() }
func (rc *RequestContext) IsGet() bool           { return rc.RequestMethod() == http.MethodGet }
func (rc *RequestContext) IsPost() bool          { return rc.RequestMethod() == http.MethodPost }
func (rc *RequestContext) IsPut() bool           { return rc.RequestMethod() == http.MethodPut }
func (rc *RequestContext) IsDelete() bool        { return rc.RequestMethod() == http.MethodDelete }
func (rc *RequestContext) IsPatch() bool         { return rc.RequestMethod() == http.MethodPatch }

// Close removes temporary files created while parsing a multipart body.
func (rc *RequestContext) Close() error {
	if rc.form == nil {
		return nil
	}

	return rc.form.RemoveAll()
}
