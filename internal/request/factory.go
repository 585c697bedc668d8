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
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/elnormous/contenttype"
	"github.com/inhies/go-bytesize"
	"github.com/tidwall/gjson"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x"
	"github.com/dadrus/reqctx/internal/x/errorchain"
)

const defaultBodyLimit = 10 * bytesize.MB

// ContextFactory creates a RequestContext for each inbound request.
type ContextFactory interface {
	Create(req *http.Request) (*RequestContext, error)
}

type FactoryOption func(*contextFactory)

// WithBodyLimit sets the maximum number of body bytes read. Zero keeps the default of 10MB.
func WithBodyLimit(limit bytesize.ByteSize) FactoryOption {
	return func(f *contextFactory) {
		if limit == 0 {
			return
		}

		value, err := safecast.ToInt64(uint64(limit))
		f.bodyLimit = x.IfThenElse(err == nil, value, math.MaxInt64)
	}
}

// WithServerName sets the name used for SERVER_NAME if the request has no Host.
func WithServerName(name string) FactoryOption {
	return func(f *contextFactory) { f.serverName = strings.TrimSpace(name) }
}

// WithEnvironment replaces the source of the environment variables, which is os.Environ by
// default.
func WithEnvironment(environ func() []string) FactoryOption {
	return func(f *contextFactory) {
		if environ != nil {
			f.env = func() *ParameterBag { return envBag(environ()) }
		}
	}
}

func withClock(now func() time.Time) FactoryOption {
	return func(f *contextFactory) { f.now = now }
}

type contextFactory struct {
	policy     *TrustPolicy
	bodyLimit  int64
	serverName string
	env        func() *ParameterBag
	now        func() time.Time
}

func NewContextFactory(policy *TrustPolicy, opts ...FactoryOption) ContextFactory {
	factory := &contextFactory{
		policy:    policy,
		bodyLimit: int64(defaultBodyLimit),
		env:       processEnvBag,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(factory)
	}

	return factory
}

func (f *contextFactory) Create(req *http.Request) (*RequestContext, error) {
	body, err := f.readBody(req)
	if err != nil {
		return nil, err
	}

	empty := newBagBuilder(0).build()
	rc := &RequestContext{
		query:   parseValues(req.URL.RawQuery),
		post:    empty,
		payload: empty,
		headers: headersBag(req),
		env:     f.env(),
		server:  newServer(req, f.serverName, f.now()),
		files:   newFiles(nil),
		policy:  f.policy,
	}

	if len(body) == 0 {
		return rc, nil
	}

	// a malformed Content-Type results in an empty media type and the body is not interpreted
	mediaType, _ := contenttype.GetMediaType(req)

	switch {
	case isMediaType(mediaType, "application", "x-www-form-urlencoded"):
		rc.post = parseValues(string(body))
		rc.payload = rc.post
	case isMediaType(mediaType, "multipart", "form-data"):
		form, err := multipart.NewReader(bytes.NewReader(body), mediaType.Parameters["boundary"]).
			ReadForm(f.bodyLimit)
		if err != nil {
			return nil, errorchain.NewWithMessage(reqctx.ErrArgument, "failed to parse multipart body").
				CausedBy(err)
		}

		rc.form = form
		rc.post = valuesBag(form.Value)
		rc.payload = rc.post
		rc.files = newFiles(form)
	case isJSON(mediaType):
		rc.payload = parseJSON(body)
	}

	return rc, nil
}

// readBody reads at most bodyLimit bytes and restores the body of the request, so that handlers
// can consume it again.
func (f *contextFactory) readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	if req.ContentLength > f.bodyLimit {
		return nil, errorchain.NewWithMessagef(reqctx.ErrArgument,
			"request body of %d bytes exceeds the limit of %d bytes", req.ContentLength, f.bodyLimit).
			CausedBy(reqctx.ErrPayloadTooLarge)
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, f.bodyLimit+1))
	if err != nil {
		return nil, errorchain.NewWithMessage(reqctx.ErrArgument, "failed to read request body").CausedBy(err)
	}

	if int64(len(body)) > f.bodyLimit {
		return nil, errorchain.NewWithMessagef(reqctx.ErrArgument,
			"request body exceeds the limit of %d bytes", f.bodyLimit).CausedBy(reqctx.ErrPayloadTooLarge)
	}

	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}

func isMediaType(mt contenttype.MediaType, typ, subtype string) bool {
	return strings.EqualFold(mt.Type, typ) && strings.EqualFold(mt.Subtype, subtype)
}

func isJSON(mt contenttype.MediaType) bool {
	return strings.EqualFold(mt.Type, "application") &&
		(strings.EqualFold(mt.Subtype, "json") || strings.HasSuffix(strings.ToLower(mt.Subtype), "+json"))
}

// parseJSON reads the members of a JSON object in the order they appear in the document. Bodies
// which are not JSON objects result in an empty bag.
func parseJSON(body []byte) *ParameterBag {
	if !gjson.ValidBytes(body) {
		return newBagBuilder(0).build()
	}

	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return newBagBuilder(0).build()
	}

	bb := newBagBuilder(0)

	result.ForEach(func(key, value gjson.Result) bool {
		bb.set(key.String(), value.Value())

		return true
	})

	return bb.build()
}
