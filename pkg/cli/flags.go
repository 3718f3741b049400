// Copyright (c) 2025, the kubeops authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/clusterkit/kubeops/pkg/k8s/client"
	"github.com/clusterkit/kubeops/pkg/serializer"
)

// Flags shared across commands. Defined once so every command spells them
// the same way.
var (
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "path to the kubeconfig file",
		Sources: cli.EnvVars("KUBECONFIG"),
	}

	contextFlag = &cli.StringFlag{
		Name:    "context",
		Usage:   "kubeconfig context to use (default: current-context)",
		Sources: cli.EnvVars("KUBEOPS_CONTEXT"),
	}

	namespaceFlag = &cli.StringFlag{
		Name:    "namespace",
		Aliases: []string{"n"},
		Usage:   "target namespace (default: kubeconfig context namespace)",
		Sources: cli.EnvVars("KUBEOPS_NAMESPACE"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("output format, one of: %v", serializer.SupportedFormats()),
		Value:   string(serializer.FormatYAML),
	}
)

// clientConfig builds the cluster access config from shared flags.
func clientConfig(cmd *cli.Command) client.Config {
	return client.Config{
		Kubeconfig: cmd.String("kubeconfig"),
		Context:    cmd.String("context"),
	}
}

// buildClient creates cluster access from the command's shared flags.
func buildClient(cmd *cli.Command) (*kubernetes.Clientset, *rest.Config, error) {
	return client.Build(clientConfig(cmd))
}

// parseFormat validates the format flag.
func parseFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", format)
	}
	return format, nil
}

// newSerializer builds the output serializer from the shared output and
// format flags.
func newSerializer(cmd *cli.Command) (*serializer.Writer, error) {
	format, err := parseFormat(cmd)
	if err != nil {
		return nil, err
	}
	return serializer.NewFileWriterOrStdout(format, cmd.String("output")), nil
}
