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

	"github.com/urfave/cli/v3"

	"github.com/clusterkit/kubeops/pkg/kubeconfig"
)

func kubeconfigCmd() *cli.Command {
	return &cli.Command{
		Name:                  "kubeconfig",
		EnableShellCompletion: true,
		Usage:                 "Work with kubeconfig files",
		Commands: []*cli.Command{
			kubeconfigMergeCmd(),
		},
	}
}

func kubeconfigMergeCmd() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge kubeconfig files into one",
		ArgsUsage: "SOURCE...",
		Description: `Merge the given kubeconfig files into a single file. Entries collide by
name within each section; the first source to define a name wins unless
--force lets later sources overwrite. The result is written with mode
0600.

# Examples

Fold a freshly provisioned cluster's config into the main one:
  kubeops kubeconfig merge ~/.kube/config ./new-cluster.yaml --output ~/.kube/config

Switch to the new cluster's context at the same time:
  kubeops kubeconfig merge ~/.kube/config ./new-cluster.yaml \
    --output ~/.kube/config --set-context new-cluster`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "destination path for the merged kubeconfig",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "let later sources overwrite colliding entries",
			},
			&cli.StringFlag{
				Name:  "set-context",
				Usage: "current-context to select in the merged file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sources := cmd.Args().Slice()
			if len(sources) == 0 {
				return fmt.Errorf("at least one source kubeconfig argument is required")
			}

			res, err := kubeconfig.Merge(kubeconfig.MergeOptions{
				Sources:        sources,
				Output:         cmd.String("output"),
				Force:          cmd.Bool("force"),
				CurrentContext: cmd.String("set-context"),
			})
			if err != nil {
				return err
			}

			for _, skipped := range res.Skipped {
				slog.Warn("kept earlier entry", "entry", skipped)
			}
			slog.Info("kubeconfig merged",
				"contexts", len(res.Contexts),
				"clusters", len(res.Clusters),
				"currentContext", res.CurrentContext,
				"output", cmd.String("output"))
			return nil
		},
	}
}
