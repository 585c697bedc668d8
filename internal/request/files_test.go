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
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/reqctx/internal/reqctx"
)

func TestFiles(t *testing.T) {
	t.Parallel()

	fileHeader := func(name, contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: name,
			Size:     size,
			Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
		}
	}

	files := newFiles(&multipart.Form{
		File: map[string][]*multipart.FileHeader{
			"avatar": {fileHeader("me.png", "image/png", 42)},
			"docs[]": {
				fileHeader("a.txt", "text/plain", 1),
				fileHeader("b.pdf", "application/pdf", 2),
			},
		},
	})

	for _, tc := range []struct {
		uc     string
		field  string
		offset int
		name   string
		ctype  string
		size   int64
	}{
		{uc: "single file", field: "avatar", name: "me.png", ctype: "image/png", size: 42},
		{uc: "first of an array", field: "docs", name: "a.txt", ctype: "text/plain", size: 1},
		{uc: "second of an array", field: "docs", offset: 1, name: "b.pdf", ctype: "application/pdf", size: 2},
		{uc: "not existing field", field: "foo"},
		{uc: "not existing offset", field: "docs", offset: 2},
		{uc: "negative offset", field: "avatar", offset: -1},
		{uc: "array field by raw name", field: "docs[]"},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// WHEN
			file, err := files.FileAt(tc.field, tc.offset)

			// THEN
			if len(tc.name) == 0 {
				require.Error(t, err)
				require.ErrorIs(t, err, reqctx.ErrRequest)
				require.ErrorIs(t, err, reqctx.ErrFileFieldMissing)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.name, file.Name())
			assert.Equal(t, tc.ctype, file.Type())
			assert.Equal(t, tc.size, file.Size())
		})
	}
}

func TestFilesWithoutForm(t *testing.T) {
	t.Parallel()

	// WHEN
	files := newFiles(nil)

	// THEN
	assert.Empty(t, files.Keys())

	_, err := files.File("avatar")
	require.ErrorIs(t, err, reqctx.ErrFileFieldMissing)
}
