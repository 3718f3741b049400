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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterkit/kubeops/pkg/defaults"
	"github.com/clusterkit/kubeops/pkg/k8s/account"
	"github.com/clusterkit/kubeops/pkg/k8s/client"
)

func accountCmd() *cli.Command {
	return &cli.Command{
		Name:                  "account",
		EnableShellCompletion: true,
		Usage:                 "Manage service accounts and their bearer tokens",
		Commands: []*cli.Command{
			accountCreateCmd(),
			accountTokenCmd(),
			accountDeleteCmd(),
		},
	}
}

func accountCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a service account, optionally bound to a cluster role",
		ArgsUsage: "NAME",
		Description: `Create a service account in the target namespace. With --cluster-role, a
ClusterRoleBinding named <namespace>-<name> is created as well. Both
operations are idempotent: existing resources are left as they are.

# Examples

Admin account for a CI system:
  kubeops account create ci-deployer -n ci --cluster-role cluster-admin

Plain account with labels:
  kubeops account create reader --label team=platform`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cluster-role",
				Usage: "cluster role to bind the account to (empty: no binding)",
			},
			&cli.StringSliceFlag{
				Name:  "label",
				Usage: "label to attach to created resources (format: key=value, can be repeated)",
			},
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, clientset, err := accountConfig(cmd)
			if err != nil {
				return err
			}

			labels, err := parseLabels(cmd.StringSlice("label"))
			if err != nil {
				return err
			}
			cfg.ClusterRole = cmd.String("cluster-role")
			cfg.Labels = labels

			if err := account.NewManager(clientset, cfg).Ensure(ctx); err != nil {
				return err
			}

			slog.Info("service account ready",
				"account", cfg.Name,
				"namespace", cfg.Namespace,
				"clusterRole", cfg.ClusterRole)
			fmt.Printf("%s/%s\n", cfg.Namespace, cfg.Name)
			return nil
		},
	}
}

func accountTokenCmd() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "Request a bearer token for a service account",
		ArgsUsage: "NAME",
		Description: `Request a short-lived bearer token through the TokenRequest API. Nothing
is stored in the cluster; the token is only valid until it expires.

# Examples

One-hour token printed as YAML:
  kubeops account token ci-deployer -n ci

Raw token for piping into another tool:
  kubeops account token ci-deployer -n ci --raw`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "expiration",
				Usage: "requested token lifetime",
				Value: defaults.TokenExpiration,
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "print only the token string",
			},
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, clientset, err := accountConfig(cmd)
			if err != nil {
				return err
			}

			info, err := account.NewManager(clientset, cfg).Token(ctx, cmd.Duration("expiration"))
			if err != nil {
				return err
			}

			if cmd.Bool("raw") {
				fmt.Println(info.Token)
				return nil
			}

			ser, err := newSerializer(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()
			return ser.Serialize(ctx, info)
		},
	}
}

func accountDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a service account and its cluster role binding",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, clientset, err := accountConfig(cmd)
			if err != nil {
				return err
			}

			if err := account.NewManager(clientset, cfg).Delete(ctx); err != nil {
				return err
			}
			slog.Info("service account deleted",
				"account", cfg.Name,
				"namespace", cfg.Namespace)
			return nil
		},
	}
}

// accountConfig resolves the account name argument, namespace, and cluster
// access shared by the account subcommands.
func accountConfig(cmd *cli.Command) (account.Config, *kubernetes.Clientset, error) {
	name := cmd.Args().First()
	if name == "" {
		return account.Config{}, nil, fmt.Errorf("service account name argument is required")
	}

	clientset, _, err := buildClient(cmd)
	if err != nil {
		return account.Config{}, nil, err
	}

	namespace := cmd.String("namespace")
	if namespace == "" {
		namespace, err = client.CurrentNamespace(clientConfig(cmd))
		if err != nil {
			return account.Config{}, nil, err
		}
	}

	return account.Config{Name: name, Namespace: namespace}, clientset, nil
}

// parseLabels parses repeated key=value flags into a label map.
func parseLabels(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid label %q, expected key=value", pair)
		}
		labels[key] = value
	}
	return labels, nil
}
