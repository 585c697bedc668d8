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

package validation

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type TagValidator interface {
	// Tag returns the name of the validation tag, like "enforced" in `validate:"enforced=secure_networks"`.
	Tag() string
	// Validate checks the given field with regard to the tag parameter.
	Validate(param string, field reflect.Value) bool
	// AlwaysValidate tells whether the validation should happen for nil or zero values as well.
	AlwaysValidate() bool
}

type ErrorTranslator interface {
	Tag() string
	MessageTemplate() string
	ErrorMessage(param string) string
}

type Option interface {
	apply(v *validator.Validate, t ut.Translator) error
}

type optionFunc func(v *validator.Validate, t ut.Translator) error

func (f optionFunc) apply(v *validator.Validate, t ut.Translator) error {
	return f(v, t)
}

func WithTagValidator(tv TagValidator) Option {
	return optionFunc(func(v *validator.Validate, _ ut.Translator) error {
		return v.RegisterValidation(
			tv.Tag(),
			func(fl validator.FieldLevel) bool { return tv.Validate(fl.Param(), fl.Field()) },
			tv.AlwaysValidate(),
		)
	})
}

func WithErrorTranslator(et ErrorTranslator) Option {
	return optionFunc(func(v *validator.Validate, t ut.Translator) error {
		return v.RegisterTranslation(
			et.Tag(),
			t,
			func(ut ut.Translator) error { return ut.Add(et.Tag(), et.MessageTemplate(), true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(fe.Tag(), fe.Field(), et.ErrorMessage(fe.Param()))
				if err != nil {
					return fe.Error()
				}

				return msg
			},
		)
	})
}
