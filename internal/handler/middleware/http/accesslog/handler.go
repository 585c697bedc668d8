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

package accesslog

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/accesscontext"
	"github.com/dadrus/reqctx/internal/x"
	"github.com/dadrus/reqctx/internal/x/httpx"
)

const requestIDHeader = "X-Request-Id"

func New(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ctx := accesscontext.New(req.Context())
			req = req.WithContext(ctx)

			requestID := req.Header.Get(requestIDHeader)
			if len(requestID) == 0 {
				requestID = uuid.NewString()
			}

			accesscontext.SetRequestID(ctx, requestID)
			rw.Header().Set(requestIDHeader, requestID)

			logCtx := logger.Level(zerolog.InfoLevel).With().
				Int64("_tx_start", start.Unix()).
				Str("_request_id", requestID).
				Str("_client_ip", httpx.PeerAddress(req.RemoteAddr)).
				Str("_http_method", req.Method).
				Str("_http_path", req.URL.Path).
				Str("_http_user_agent", req.Header.Get("User-Agent")).
				Str("_http_host", req.Host).
				Str("_http_scheme", x.IfThenElse(req.TLS != nil, "https", "http"))

			logCtx = logHeader(req, logCtx, "X-Forwarded-Proto", "_http_x_forwarded_proto")
			logCtx = logHeader(req, logCtx, "X-Forwarded-Host", "_http_x_forwarded_host")
			logCtx = logHeader(req, logCtx, "X-Forwarded-Port", "_http_x_forwarded_port")
			logCtx = logHeader(req, logCtx, "X-Forwarded-For", "_http_x_forwarded_for")
			logCtx = logHeader(req, logCtx, "Forwarded", "_http_forwarded")

			accLog := logCtx.Logger()
			accLog.Info().Msg("TX started")

			metrics := httpsnoop.CaptureMetrics(next, rw, req)

			logClientInfo(ctx, accLog.Info()).
				Int64("_body_bytes_sent", metrics.Written).
				Int("_http_status_code", metrics.Code).
				Int64("_tx_duration_ms", time.Since(start).Milliseconds()).
				Msg("TX finished")
		})
	}
}

// logClientInfo adds the facts about the original client, which are only known after the request
// context has been created, as well as the error which occurred while handling the request.
func logClientInfo(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	client := accesscontext.ClientInfo(ctx)

	if len(client.IP) != 0 {
		event.Str("_orig_client_ip", client.IP)
	}

	if len(client.Scheme) != 0 {
		event.Str("_orig_http_scheme", client.Scheme)
	}

	if len(client.Host) != 0 {
		event.Str("_orig_http_host", client.Host)
	}

	if err := accesscontext.Error(ctx); err != nil {
		event.Err(err)
	}

	return event
}

func logHeader(req *http.Request, logCtx zerolog.Context, headerName, logKey string) zerolog.Context {
	if headerValue := req.Header.Get(headerName); len(headerValue) != 0 {
		logCtx = logCtx.Str(logKey, headerValue)
	}

	return logCtx
}
