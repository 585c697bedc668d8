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

package errorchain

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"
)

type link struct {
	err  error
	msg  string
	next *link
}

type report struct { //nolint:musttag
	XMLName xml.Name `json:"-"`
	Code    string   `json:"code"              xml:"code"`
	Message string   `json:"message,omitempty" xml:"message,omitempty"`
	Cause   string   `json:"cause,omitempty"   xml:"cause,omitempty"`
}

// ErrorChain links a sentinel error with the errors which caused it. errors.Is and errors.As
// walk the whole chain, so a chain built from ErrRequest and caused by ErrClientIPUnavailable
// matches both.
type ErrorChain struct { // nolint: errname
	head *link
	tail *link
}

func New(err error) *ErrorChain {
	return (&ErrorChain{}).causedBy(err, "")
}

func NewWithMessage(err error, message string) *ErrorChain {
	return (&ErrorChain{}).causedBy(err, message)
}

func NewWithMessagef(err error, format string, a ...any) *ErrorChain {
	return (&ErrorChain{}).causedBy(err, fmt.Sprintf(format, a...))
}

func (ec *ErrorChain) CausedBy(err error) *ErrorChain {
	return ec.causedBy(err, "")
}

func (ec *ErrorChain) Error() string {
	parts := make([]string, 0, ec.len())

	for l := ec.head; l != nil; l = l.next {
		if len(l.msg) == 0 {
			parts = append(parts, l.err.Error())
		} else {
			parts = append(parts, l.err.Error()+": "+l.msg)
		}
	}

	return strings.Join(parts, ": ")
}

func (ec *ErrorChain) Unwrap() error {
	if ec.head == nil || ec.head.next == nil {
		return nil
	}

	return &ErrorChain{head: ec.head.next, tail: ec.tail}
}

func (ec *ErrorChain) Is(target error) bool {
	if ec.head == nil {
		return false
	}

	return errors.Is(ec.head.err, target)
}

func (ec *ErrorChain) As(target any) bool {
	if ec.head == nil {
		return false
	}

	return errors.As(ec.head.err, target)
}

// Errors returns all errors of the chain, the sentinel first.
func (ec *ErrorChain) Errors() []error {
	errs := make([]error, 0, ec.len())

	for l := ec.head; l != nil; l = l.next {
		errs = append(errs, l.err)
	}

	return errs
}

func (ec *ErrorChain) MarshalJSON() ([]byte, error) {
	return json.Marshal(ec.report())
}

func (ec *ErrorChain) MarshalXML(encoder *xml.Encoder, _ xml.StartElement) error {
	rep := ec.report()
	rep.XMLName = xml.Name{Local: "error"}

	return encoder.Encode(rep)
}

func (ec *ErrorChain) String() string {
	if len(ec.head.msg) == 0 {
		return ec.head.err.Error()
	}

	return ec.head.err.Error() + ": " + ec.head.msg
}

func (ec *ErrorChain) report() report {
	rep := report{
		Code:    strcase.ToLowerCamel(ec.head.err.Error()),
		Message: ec.head.msg,
	}

	if ec.head.next != nil {
		rep.Cause = ec.head.next.err.Error()
	}

	return rep
}

func (ec *ErrorChain) len() int {
	count := 0

	for l := ec.head; l != nil; l = l.next {
		count++
	}

	return count
}

func (ec *ErrorChain) causedBy(err error, msg string) *ErrorChain {
	l := &link{err: err, msg: msg}

	if ec.head == nil {
		ec.head = l
		ec.tail = l

		return ec
	}

	ec.tail.next = l
	ec.tail = l

	return ec
}
