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

package reqctx

import "errors"

var (
	ErrArgument      = errors.New("argument error")
	ErrConfiguration = errors.New("configuration error")
	ErrInternal      = errors.New("internal error")

	// ErrPayloadTooLarge is the cause of an ErrArgument raised for request bodies exceeding the configured limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRequest is the generic error raised when the request data does not allow to answer a question
	// about the request. It is always caused by one of the more specific errors below.
	ErrRequest             = errors.New("request error")
	ErrClientIPUnavailable = errors.New("client ip unavailable")
	ErrFileFieldMissing    = errors.New("file field missing")
)
