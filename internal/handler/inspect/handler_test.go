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

package inspect

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/handler/middleware/http/errorhandler"
	"github.com/dadrus/reqctx/internal/request"
)

func newRequest(t *testing.T, method, target, accept string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"

	if len(accept) != 0 {
		req.Header.Set("Accept", accept)
	}

	return req
}

func TestInspectHandler(t *testing.T) {
	t.Parallel()

	policy, err := request.NewTrustPolicy(config.TrustConfig{TrustedProxies: []string{"127.0.0.1"}})
	require.NoError(t, err)

	factory := request.NewContextFactory(policy, request.WithEnvironment(func() []string { return nil }))

	for _, tc := range []struct {
		uc        string
		request   func(t *testing.T) *http.Request
		noContext bool
		assert    func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			uc: "without request context",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local/test", "")
			},
			noContext: true,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusInternalServerError, rec.Code)
			},
		},
		{
			uc: "without client address",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req := newRequest(t, http.MethodGet, "http://backend.local/test", "")
				req.RemoteAddr = ""

				return req
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusBadRequest, rec.Code)
			},
		},
		{
			uc: "json report by default",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local/test?foo=bar&tags%5B%5D=a&tags%5B%5D=b", "")
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
				assert.JSONEq(t, `{
					"method": "GET",
					"client_ip": "192.0.2.1",
					"trusted_peer": false,
					"secure": false,
					"scheme": "http",
					"host": "backend.local",
					"port": 80,
					"current_url": "http://backend.local/test?foo=bar&tags%5B%5D=a&tags%5B%5D=b",
					"query": {"foo": "bar", "tags": ["a", "b"]},
					"post": {},
					"payload": {},
					"headers": {"Host": "backend.local"},
					"files": []
				}`, rec.Body.String())
			},
		},
		{
			uc: "xml report",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local/test?foo=bar", "application/xml")
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))

				body := rec.Body.String()
				assert.True(t, strings.HasPrefix(body, "<request>"))
				assert.Contains(t, body, "<client_ip>192.0.2.1</client_ip>")
				assert.Contains(t, body, "<port>80</port>")
				assert.Contains(t, body, `<query><param name="foo"><value>bar</value></param></query>`)
				assert.Contains(t, body, `<param name="Accept"><value>application/xml</value></param>`)
			},
		},
		{
			uc: "yaml report",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local:8080/test?foo=bar", "application/yaml")
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

				var decoded map[string]any

				require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &decoded))
				assert.Equal(t, "192.0.2.1", decoded["client_ip"])
				assert.Equal(t, 8080, decoded["port"])
				assert.Equal(t, "http://backend.local:8080/test?foo=bar", decoded["current_url"])
				assert.Equal(t, map[string]any{"foo": "bar"}, decoded["query"])
			},
		},
		{
			uc: "text report",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local/test?foo=bar", "text/plain")
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))

				body := rec.Body.String()
				assert.True(t, strings.HasPrefix(body, "method: GET\nclient_ip: 192.0.2.1\n"))
				assert.Contains(t, body, "current_url: http://backend.local/test?foo=bar\n")
				assert.Contains(t, body, "query.foo: bar\n")
				assert.Contains(t, body, "headers.Host: backend.local\n")
			},
		},
		{
			uc: "not acceptable",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				return newRequest(t, http.MethodGet, "http://backend.local/test", "image/png")
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusNotAcceptable, rec.Code)
				assert.Empty(t, rec.Body.String())
			},
		},
		{
			uc: "multipart request with files",
			request: func(t *testing.T) *http.Request {
				t.Helper()

				var body bytes.Buffer

				writer := multipart.NewWriter(&body)
				require.NoError(t, writer.WriteField("title", "report"))

				part, err := writer.CreateFormFile("docs[]", "a.txt")
				require.NoError(t, err)
				_, err = part.Write([]byte("hello"))
				require.NoError(t, err)

				require.NoError(t, writer.Close())

				req := httptest.NewRequest(http.MethodPost, "http://backend.local/upload", &body)
				req.RemoteAddr = "192.0.2.1:1234"
				req.Header.Set("Content-Type", writer.FormDataContentType())

				return req
			},
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				require.Equal(t, http.StatusOK, rec.Code)

				var decoded struct {
					Method string            `json:"method"`
					Post   map[string]string `json:"post"`
					Files  []fileInfo        `json:"files"`
				}

				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
				assert.Equal(t, http.MethodPost, decoded.Method)
				assert.Equal(t, map[string]string{"title": "report"}, decoded.Post)
				assert.Equal(t, []fileInfo{
					{Field: "docs", Name: "a.txt", Type: "application/octet-stream", Size: 5},
				}, decoded.Files)
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			req := tc.request(t)
			rec := httptest.NewRecorder()

			if !tc.noContext {
				rc, err := factory.Create(req)
				require.NoError(t, err)

				defer rc.Close()

				req = req.WithContext(request.WithContext(req.Context(), rc))
			}

			// WHEN
			newHandler(errorhandler.New()).ServeHTTP(rec, req)

			// THEN
			tc.assert(t, rec)
		})
	}
}
