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
	"encoding/xml"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dadrus/reqctx/internal/request"
)

// report is what the inspect service answers with. It lists the facts the RequestContext derived
// for the request together with the raw bags they were derived from.
type report struct {
	Method      string                `json:"method"       yaml:"method"`
	ClientIP    string                `json:"client_ip"    yaml:"client_ip"`
	TrustedPeer bool                  `json:"trusted_peer" yaml:"trusted_peer"`
	Secure      bool                  `json:"secure"       yaml:"secure"`
	Scheme      string                `json:"scheme"       yaml:"scheme"`
	Host        string                `json:"host"         yaml:"host"`
	Port        int                   `json:"port"         yaml:"port"`
	CurrentURL  string                `json:"current_url"  yaml:"current_url"`
	Query       *request.ParameterBag `json:"query"        yaml:"query"`
	Post        *request.ParameterBag `json:"post"         yaml:"post"`
	Payload     *request.ParameterBag `json:"payload"      yaml:"payload"`
	Headers     *request.ParameterBag `json:"headers"      yaml:"headers"`
	Files       []fileInfo            `json:"files"        yaml:"files"`
}

type fileInfo struct {
	Field string `json:"field" xml:"field,attr" yaml:"field"`
	Name  string `json:"name"  xml:"name,attr"  yaml:"name"`
	Type  string `json:"type"  xml:"type,attr"  yaml:"type"`
	Size  int64  `json:"size"  xml:"size,attr"  yaml:"size"`
}

func newReport(rc *request.RequestContext) (*report, error) {
	clientIP, err := rc.ClientIP()
	if err != nil {
		return nil, err
	}

	return &report{
		Method:      rc.RequestMethod(),
		ClientIP:    clientIP,
		TrustedPeer: rc.IsFromTrustedProxy(),
		Secure:      rc.IsRequestSecured(),
		Scheme:      rc.Scheme(),
		Host:        rc.HostName(),
		Port:        rc.ConnectionPort(),
		CurrentURL:  rc.CurrentURL(),
		Query:       rc.QueryBag(),
		Post:        rc.PostBag(),
		Payload:     rc.PayloadBag(),
		Headers:     rc.HeaderBag(),
		Files:       filesOf(rc.FileBag()),
	}, nil
}

func filesOf(files request.Files) []fileInfo {
	infos := make([]fileInfo, 0, files.Len())

	for _, field := range files.Keys() {
		for idx := 0; ; idx++ {
			file, err := files.FileAt(field, idx)
			if err != nil {
				break
			}

			infos = append(infos, fileInfo{Field: field, Name: file.Name(), Type: file.Type(), Size: file.Size()})
		}
	}

	return infos
}

// MarshalXML renders the report with each bag as a list of param elements, as XML has no notion
// of maps.
func (r *report) MarshalXML(encoder *xml.Encoder, _ xml.StartElement) error {
	type xmlReport struct {
		XMLName     xml.Name   `xml:"request"`
		Method      string     `xml:"method"`
		ClientIP    string     `xml:"client_ip"`
		TrustedPeer bool       `xml:"trusted_peer"`
		Secure      bool       `xml:"secure"`
		Scheme      string     `xml:"scheme"`
		Host        string     `xml:"host"`
		Port        int        `xml:"port"`
		CurrentURL  string     `xml:"current_url"`
		Query       []xmlParam `xml:"query>param"`
		Post        []xmlParam `xml:"post>param"`
		Payload     []xmlParam `xml:"payload>param"`
		Headers     []xmlParam `xml:"headers>param"`
		Files       []fileInfo `xml:"files>file"`
	}

	return encoder.Encode(xmlReport{
		Method:      r.Method,
		ClientIP:    r.ClientIP,
		TrustedPeer: r.TrustedPeer,
		Secure:      r.Secure,
		Scheme:      r.Scheme,
		Host:        r.Host,
		Port:        r.Port,
		CurrentURL:  r.CurrentURL,
		Query:       xmlParams(r.Query),
		Post:        xmlParams(r.Post),
		Payload:     xmlParams(r.Payload),
		Headers:     xmlParams(r.Headers),
		Files:       r.Files,
	})
}

type xmlParam struct {
	Name   string   `xml:"name,attr"`
	Values []string `xml:"value"`
}

func xmlParams(bag *request.ParameterBag) []xmlParam {
	params := make([]xmlParam, 0, bag.Len())

	for _, key := range bag.Keys() {
		params = append(params, xmlParam{Name: key, Values: stringValues(bag.Get(key, nil))})
	}

	return params
}

// stringValues flattens a bag value. Strings are taken as they are, everything else is rendered
// as JSON.
func stringValues(value any) []string {
	switch val := value.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return []string{fmt.Sprint(val)}
		}

		return []string{string(raw)}
	}
}
