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
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/reqctx/internal/config"
	"github.com/dadrus/reqctx/internal/reqctx"
)

func newTestFactory(t *testing.T, opts ...FactoryOption) ContextFactory {
	t.Helper()

	policy, err := NewTrustPolicy(config.TrustConfig{TrustedProxies: []string{"127.0.0.1"}})
	require.NoError(t, err)

	return NewContextFactory(policy, append([]FactoryOption{
		WithEnvironment(func() []string { return []string{"APP_ENV=test"} }),
	}, opts...)...)
}

func TestNewContextFactoryOptions(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc     string
		opts   []FactoryOption
		assert func(t *testing.T, factory *contextFactory)
	}{
		{
			uc: "defaults",
			assert: func(t *testing.T, factory *contextFactory) {
				t.Helper()

				assert.Equal(t, int64(10*bytesize.MB), factory.bodyLimit)
				assert.Empty(t, factory.serverName)
				assert.NotNil(t, factory.env)
				assert.NotNil(t, factory.now)
			},
		},
		{
			uc:   "zero body limit keeps the default",
			opts: []FactoryOption{WithBodyLimit(0)},
			assert: func(t *testing.T, factory *contextFactory) {
				t.Helper()

				assert.Equal(t, int64(10*bytesize.MB), factory.bodyLimit)
			},
		},
		{
			uc: "all options",
			opts: []FactoryOption{
				WithBodyLimit(1 * bytesize.KB),
				WithServerName(" localhost "),
				WithEnvironment(func() []string { return []string{"FOO=bar"} }),
				WithEnvironment(nil),
			},
			assert: func(t *testing.T, factory *contextFactory) {
				t.Helper()

				assert.Equal(t, int64(1024), factory.bodyLimit)
				assert.Equal(t, "localhost", factory.serverName)
				assert.Equal(t, "bar", factory.env().Get("FOO", nil))
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// WHEN
			factory := NewContextFactory(&TrustPolicy{}, tc.opts...)

			// THEN
			impl, ok := factory.(*contextFactory)
			require.True(t, ok)
			tc.assert(t, impl)
		})
	}
}

func TestContextFactoryCreateWithBody(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc          string
		contentType string
		body        string
		assert      func(t *testing.T, rc *RequestContext)
	}{
		{
			uc:          "url encoded form",
			contentType: "application/x-www-form-urlencoded; charset=utf-8",
			body:        "name=foo&ids[]=1&ids[]=2&age=3",
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, []string{"name", "ids", "age"}, rc.PostBag().Keys())
				assert.Equal(t, "foo", rc.Post("name", nil))
				assert.Equal(t, []string{"1", "2"}, rc.Post("ids", nil))
				assert.Same(t, rc.PostBag(), rc.PayloadBag())
				assert.Equal(t, 0, rc.QueryBag().Len())
			},
		},
		{
			uc:          "json object",
			contentType: "application/json",
			body:        `{"zeta": 1, "alpha": {"nested": true}, "list": ["a", 2]}`,
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, []string{"zeta", "alpha", "list"}, rc.PayloadBag().Keys())
				assert.InDelta(t, 1.0, rc.Payload("zeta", nil), 0.0001)
				assert.Equal(t, map[string]any{"nested": true}, rc.Payload("alpha", nil))
				assert.Equal(t, []any{"a", 2.0}, rc.Payload("list", nil))
				assert.Equal(t, 0, rc.PostBag().Len())
			},
		},
		{
			uc:          "json based media type",
			contentType: "application/vnd.api+json",
			body:        `{"data": "x"}`,
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, "x", rc.Payload("data", nil))
			},
		},
		{
			uc:          "invalid json",
			contentType: "application/json",
			body:        `{"data": `,
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, 0, rc.PayloadBag().Len())
			},
		},
		{
			uc:          "json array",
			contentType: "application/json",
			body:        `[1, 2, 3]`,
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, 0, rc.PayloadBag().Len())
			},
		},
		{
			uc:          "unsupported media type",
			contentType: "text/plain",
			body:        "a=b",
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, 0, rc.PostBag().Len())
				assert.Equal(t, 0, rc.PayloadBag().Len())
			},
		},
		{
			uc:   "no content type",
			body: "a=b",
			assert: func(t *testing.T, rc *RequestContext) {
				t.Helper()

				assert.Equal(t, 0, rc.PostBag().Len())
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			if len(tc.contentType) != 0 {
				req.Header.Set("Content-Type", tc.contentType)
			}

			// WHEN
			rc, err := newTestFactory(t).Create(req)

			// THEN
			require.NoError(t, err)
			tc.assert(t, rc)

			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.body, string(body))
		})
	}
}

func TestContextFactoryCreateWithMultipartBody(t *testing.T) {
	t.Parallel()

	// GIVEN
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	require.NoError(t, writer.WriteField("name", "foo"))
	require.NoError(t, writer.WriteField("tags[]", "a"))
	require.NoError(t, writer.WriteField("tags[]", "b"))

	for _, file := range []struct{ field, name, content string }{
		{field: "avatar", name: "me.png", content: "png"},
		{field: "docs[]", name: "first.txt", content: "first"},
		{field: "docs[]", name: "second.txt", content: "second"},
	} {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(t, err)

		_, err = part.Write([]byte(file.content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// WHEN
	rc, err := newTestFactory(t).Create(req)

	// THEN
	require.NoError(t, err)

	defer rc.Close()

	assert.Equal(t, "foo", rc.Post("name", nil))
	assert.Equal(t, []string{"a", "b"}, rc.Post("tags", nil))
	assert.Same(t, rc.PostBag(), rc.PayloadBag())
	assert.Equal(t, []string{"avatar", "docs"}, rc.FileBag().Keys())

	avatar, err := rc.File("avatar")
	require.NoError(t, err)
	assert.Equal(t, "me.png", avatar.Name())
	assert.Equal(t, int64(3), avatar.Size())
	assert.Equal(t, "application/octet-stream", avatar.Type())
	assert.NotEmpty(t, avatar.Header())

	doc, err := rc.FileAt("docs", 1)
	require.NoError(t, err)
	assert.Equal(t, "second.txt", doc.Name())

	file, err := doc.Open()
	require.NoError(t, err)

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "second", string(content))

	_, err = rc.FileAt("docs", 2)
	require.ErrorIs(t, err, reqctx.ErrRequest)
	require.ErrorIs(t, err, reqctx.ErrFileFieldMissing)

	_, err = rc.FileAt("docs", -1)
	require.ErrorIs(t, err, reqctx.ErrFileFieldMissing)

	_, err = rc.File("name")
	require.ErrorIs(t, err, reqctx.ErrFileFieldMissing)
}

func TestContextFactoryCreateWithMalformedMultipartBody(t *testing.T) {
	t.Parallel()

	// GIVEN
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	// WHEN
	_, err := newTestFactory(t).Create(req)

	// THEN
	require.Error(t, err)
	require.ErrorIs(t, err, reqctx.ErrArgument)
}

func TestContextFactoryCreateWithBodyExceedingLimit(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc            string
		contentLength int64
	}{
		{uc: "declared length", contentLength: 20},
		{uc: "unknown length", contentLength: -1},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 20)))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.ContentLength = tc.contentLength

			// WHEN
			_, err := newTestFactory(t, WithBodyLimit(10)).Create(req)

			// THEN
			require.Error(t, err)
			require.ErrorIs(t, err, reqctx.ErrArgument)
			require.ErrorIs(t, err, reqctx.ErrPayloadTooLarge)
			assert.Contains(t, err.Error(), "exceeds the limit of 10 bytes")
		})
	}
}

func TestContextFactoryCreateSetsServerVariables(t *testing.T) {
	t.Parallel()

	// GIVEN
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/path?x=1", nil)
	req.Host = ""

	factory := newTestFactory(t,
		WithServerName("gateway.local"),
		withClock(func() time.Time { return now }),
	)

	// WHEN
	rc, err := factory.Create(req)

	// THEN
	require.NoError(t, err)
	assert.True(t, now.Equal(rc.Server().RequestTime()))
	assert.Equal(t, "gateway.local", rc.Server().ServerName())
	assert.Equal(t, "gateway.local", rc.HostName())
	assert.Equal(t, "http://gateway.local/path?x=1", rc.CurrentURL())
	assert.Equal(t, "1", rc.Query("x", nil))
	assert.Equal(t, "test", rc.Env("APP_ENV", nil))
	assert.Equal(t, []string{"APP_ENV"}, rc.EnvBag().Keys())
	require.NoError(t, rc.Close())
}
