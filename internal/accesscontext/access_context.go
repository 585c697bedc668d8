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

package accesscontext

import (
	"context"
)

type ctxKey struct{}

// Client holds the facts about the original client, as derived from the request and the
// headers of trusted proxies.
type Client struct {
	IP     string
	Scheme string
	Host   string
}

type accessContext struct {
	err       error
	requestID string
	client    Client
}

func New(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, &accessContext{})
}

func Error(ctx context.Context) error {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		return c.err
	}

	return nil
}

func SetError(ctx context.Context, err error) {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		c.err = err
	}
}

func RequestID(ctx context.Context) string {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		return c.requestID
	}

	return ""
}

func SetRequestID(ctx context.Context, id string) {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		c.requestID = id
	}
}

func ClientInfo(ctx context.Context) Client {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		return c.client
	}

	return Client{}
}

func SetClientInfo(ctx context.Context, client Client) {
	if c, ok := ctx.Value(ctxKey{}).(*accessContext); ok {
		c.client = client
	}
}
