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
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/reqctx/internal/request"
)

var supportedMediaTypes = []contenttype.MediaType{ //nolint:gochecknoglobals
	contenttype.NewMediaType("application/json"),
	contenttype.NewMediaType("application/xml"),
	contenttype.NewMediaType("application/yaml"),
	contenttype.NewMediaType("text/plain"),
}

// negotiate selects the media type preferred by the client. JSON is used if the request has no
// Accept header.
func negotiate(req *http.Request) (contenttype.MediaType, error) {
	mediaType, _, err := contenttype.GetAcceptableMediaType(req, supportedMediaTypes)

	return mediaType, err
}

func encode(mediaType contenttype.MediaType, rep *report) ([]byte, error) {
	switch mediaType.Subtype {
	case "json":
		return json.Marshal(rep)
	case "xml":
		return xml.Marshal(rep)
	case "yaml":
		return yaml.Marshal(rep)
	default:
		return renderText(rep), nil
	}
}

func renderText(rep *report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "method: %s\n", rep.Method)
	fmt.Fprintf(&buf, "client_ip: %s\n", rep.ClientIP)
	fmt.Fprintf(&buf, "trusted_peer: %t\n", rep.TrustedPeer)
	fmt.Fprintf(&buf, "secure: %t\n", rep.Secure)
	fmt.Fprintf(&buf, "scheme: %s\n", rep.Scheme)
	fmt.Fprintf(&buf, "host: %s\n", rep.Host)
	fmt.Fprintf(&buf, "port: %d\n", rep.Port)
	fmt.Fprintf(&buf, "current_url: %s\n", rep.CurrentURL)

	writeBag(&buf, "query", rep.Query)
	writeBag(&buf, "post", rep.Post)
	writeBag(&buf, "payload", rep.Payload)
	writeBag(&buf, "headers", rep.Headers)

	for _, file := range rep.Files {
		fmt.Fprintf(&buf, "files.%s: %s (%s, %d bytes)\n", file.Field, file.Name, file.Type, file.Size)
	}

	return buf.Bytes()
}

func writeBag(buf *bytes.Buffer, name string, bag *request.ParameterBag) {
	for _, key := range bag.Keys() {
		fmt.Fprintf(buf, "%s.%s: %s\n", name, key, strings.Join(stringValues(bag.Get(key, nil)), ", "))
	}
}
