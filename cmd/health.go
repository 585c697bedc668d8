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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/reqctx/internal/handler/inspect"
)

const healthCheckTimeout = 10 * time.Second

var errUnexpectedStatus = errors.New("unexpected status code")

// nolint: gochecknoinits
func init() {
	RootCmd.AddCommand(newHealthCmd())
}

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "health",
		Short:   "Checks the health status of a running reqctx service",
		Example: "reqctx health -e http://127.0.0.1:4468",
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpointURL, _ := cmd.Flags().GetString("endpoint")
			outputFormat, _ := cmd.Flags().GetString("output")

			return checkHealth(cmd, endpointURL, outputFormat)
		},
	}

	cmd.PersistentFlags().StringP("endpoint", "e", "", `The base URL of the reqctx deployment.
Note: If the endpoint URL points to a Load Balancer, this command will effectively test the Load Balancer.`)
	cmd.PersistentFlags().StringP("output", "o", "text", `The format for the result output.
Can be "json", "text", or "yaml".`)

	return cmd
}

func checkHealth(cmd *cobra.Command, endpointURL, outputFormat string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL+inspect.EndpointHealth, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", errUnexpectedStatus, resp.Status)
	}

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var structuredResponse map[string]any
	if err = json.Unmarshal(rawResp, &structuredResponse); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch outputFormat {
	case "json":
		cmd.Println(string(rawResp))
	case "yaml":
		rawYaml, err := yaml.Marshal(structuredResponse)
		if err != nil {
			return fmt.Errorf("failed to convert response to yaml: %w", err)
		}

		cmd.Print(string(rawYaml))
	default:
		cmd.Println(structuredResponse["status"])
	}

	return nil
}
