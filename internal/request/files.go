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
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"

	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/x/errorchain"
)

// File is a file uploaded with a multipart request.
type File struct {
	header *multipart.FileHeader
}

func (f *File) Name() string                 { return f.header.Filename }
func (f *File) Size() int64                  { return f.header.Size }
func (f *File) Type() string                 { return f.header.Header.Get("Content-Type") }
func (f *File) Header() textproto.MIMEHeader { return f.header.Header }
func (f *File) Open() (multipart.File, error) { return f.header.Open() }

// Files holds the uploaded files by their form field names with the "[]" suffix removed. Each
// entry is a []*File.
type Files struct {
	*ParameterBag
}

func newFiles(form *multipart.Form) Files {
	if form == nil {
		return Files{ParameterBag: newBagBuilder(0).build()}
	}

	bb := newBagBuilder(len(form.File))

	for _, name := range slices.Sorted(maps.Keys(form.File)) {
		key := name
		if trimmed, isArray := strings.CutSuffix(name, arrayKeySuffix); isArray && len(trimmed) != 0 {
			key = trimmed
		}

		files, _ := bb.values[key].([]*File)
		for _, header := range form.File[name] {
			files = append(files, &File{header: header})
		}

		bb.set(key, files)
	}

	return Files{ParameterBag: bb.build()}
}

// File returns the first file uploaded under the given field name.
func (f Files) File(name string) (*File, error) { return f.FileAt(name, 0) }

// FileAt returns the file at the given offset for fields carrying multiple files, like "docs[]".
func (f Files) FileAt(name string, offset int) (*File, error) {
	files, ok := f.Get(name, nil).([]*File)
	if !ok {
		return nil, errorchain.NewWithMessagef(reqctx.ErrRequest,
			"no file uploaded under %q", name).CausedBy(reqctx.ErrFileFieldMissing)
	}

	if offset < 0 || offset >= len(files) {
		return nil, errorchain.NewWithMessagef(reqctx.ErrRequest,
			"no file at offset %d uploaded under %q", offset, name).CausedBy(reqctx.ErrFileFieldMissing)
	}

	return files[offset], nil
}
