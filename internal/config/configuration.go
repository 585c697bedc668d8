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

package config

import (
	"os"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dadrus/reqctx/internal/config/parser"
	"github.com/dadrus/reqctx/internal/reqctx"
	"github.com/dadrus/reqctx/internal/validation"
	"github.com/dadrus/reqctx/internal/x/errorchain"
)

type (
	EnvVarPrefix      string
	ConfigurationPath string
)

type Configuration struct {
	Serve     ServeConfig     `koanf:"serve"`
	Log       LoggingConfig   `koanf:"log"`
	Request   TrustConfig     `koanf:"request"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Profiling ProfilingConfig `koanf:"profiling"`
}

func NewConfiguration(
	envPrefix EnvVarPrefix,
	configFile ConfigurationPath,
	validator validation.Validator,
) (*Configuration, error) {
	// copy defaults
	result := defaultConfig()

	opts := []parser.Option{
		parser.WithDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		parser.WithDecodeHookFunc(mapstructure.StringToSliceHookFunc(",")),
		parser.WithDecodeHookFunc(logLevelDecodeHookFunc),
		parser.WithDecodeHookFunc(logFormatDecodeHookFunc),
		parser.WithDecodeHookFunc(byteSizeDecodeHookFunc),
		parser.WithEnvPrefix(string(envPrefix)),
		parser.WithConfigFile(string(configFile)),
		parser.WithDefaultConfigFilename("reqctx.yaml"),
		parser.WithConfigLookupDir("."),
		parser.WithConfigLookupDir("/etc/reqctx"),
		parser.WithConfigValidator(validateConfigFile),
	}

	if err := parser.New(opts...).Load(&result); err != nil {
		return nil, errorchain.NewWithMessage(reqctx.ErrConfiguration,
			"failed to load configuration").CausedBy(err)
	}

	if err := validator.ValidateStruct(result); err != nil {
		return nil, err
	}

	return &result, nil
}

func validateConfigFile(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return errorchain.NewWithMessagef(reqctx.ErrConfiguration,
			"failed to open %s", configPath).CausedBy(err)
	}

	defer file.Close()

	return ValidateConfigSchema(file)
}
