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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestContextPropagation(t *testing.T) {
	t.Parallel()

	// GIVEN
	rc := &RequestContext{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	// WHEN
	req = req.WithContext(WithContext(req.Context(), rc))

	// THEN
	assert.Same(t, rc, FromRequest(req))
	assert.Same(t, rc, FromContext(req.Context()))
	assert.Nil(t, FromContext(context.Background()))
}
