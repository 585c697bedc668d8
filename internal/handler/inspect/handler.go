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
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dadrus/reqctx/internal/handler/middleware/http/errorhandler"
	"github.com/dadrus/reqctx/internal/request"
	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x/errorchain"
)

type handler struct {
	eh errorhandler.ErrorHandler
}

func newHandler(eh errorhandler.ErrorHandler) http.Handler {
	return &handler{eh: eh}
}

func (h *handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	rc := request.FromRequest(req)
	if rc == nil {
		h.eh.HandleError(rw, req, errorchain.NewWithMessage(reqctx.ErrInternal, "no request context available"))

		return
	}

	rep, err := newReport(rc)
	if err != nil {
		h.eh.HandleError(rw, req, err)

		return
	}

	mediaType, err := negotiate(req)
	if err != nil {
		zerolog.Ctx(req.Context()).Debug().Err(err).Msg("Response format negotiation failed")
		rw.WriteHeader(http.StatusNotAcceptable)

		return
	}

	body, err := encode(mediaType, rep)
	if err != nil {
		h.eh.HandleError(rw, req, errorchain.NewWithMessage(reqctx.ErrInternal, "failed rendering report").
			CausedBy(err))

		return
	}

	rw.Header().Set("Content-Type", mediaType.String())
	rw.Header().Set("X-Content-Type-Options", "nosniff")
	rw.WriteHeader(http.StatusOK)
	rw.Write(body) //nolint:errcheck
}
