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

package dump

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/x/stringx"
)

// New logs the raw request and response on trace level. Nothing is dumped on other levels.
func New() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			logger := zerolog.Ctx(req.Context())

			if logger.GetLevel() != zerolog.TraceLevel {
				next.ServeHTTP(rw, req)

				return
			}

			// streamed bodies are not dumped
			contentType := req.Header.Get("Content-Type")
			withBody := req.ContentLength != 0 &&
				!strings.Contains(contentType, "stream") &&
				!strings.Contains(contentType, "application/x-ndjson")

			if dump, err := httputil.DumpRequest(req, withBody); err == nil {
				logger.Trace().Msgf("Request: %s\n", stringx.ToString(dump))
			} else {
				logger.Trace().Err(err).Msg("Failed dumping request")
			}

			var (
				code = http.StatusOK
				body bytes.Buffer
			)

			next.ServeHTTP(httpsnoop.Wrap(rw, httpsnoop.Hooks{
				WriteHeader: func(writeHeader httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(status int) {
						code = status

						writeHeader(status)
					}
				},
				Write: func(write httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(data []byte) (int, error) {
						body.Write(data)

						return write(data)
					}
				},
			}), req)

			var resp bytes.Buffer

			fmt.Fprintf(&resp, "%s %03d %s\r\n", req.Proto, code, http.StatusText(code))
			rw.Header().Write(&resp) //nolint:errcheck
			resp.WriteString("\r\n")
			resp.Write(body.Bytes())

			logger.Trace().Msgf("Response: %s\n", stringx.ToString(resp.Bytes()))
		})
	}
}
