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

	"github.com/clusterkit/kubeops/pkg/defaults"
	"github.com/clusterkit/kubeops/pkg/k8s/sync"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sync",
		EnableShellCompletion: true,
		Usage:                 "Copy local files into a running pod",
		ArgsUsage:             "POD_PREFIX SOURCE TARGET_DIR",
		Description: `Find a running pod whose name starts with POD_PREFIX and stream SOURCE
(a file or directory) into TARGET_DIR inside its container. The transfer
rides an exec session, so the only requirement on the image is a tar
binary.

# Examples

Push a config tree into a StatefulSet pod:
  kubeops sync web- ./conf /etc/app

Target a specific container:
  kubeops sync web- ./conf /etc/app --container sidecar`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "container",
				Usage: "container to receive the files (default: the pod's default container)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "deadline for the transfer",
				Value: defaults.SyncExecTimeout,
			},
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 3 {
				return fmt.Errorf("expected POD_PREFIX SOURCE TARGET_DIR arguments")
			}
			prefix, source, target := args.Get(0), args.Get(1), args.Get(2)

			_, restConfig, err := buildClient(cmd)
			if err != nil {
				return err
			}

			p, err := buildPoller(cmd)
			if err != nil {
				return err
			}
			outcome := p.MatchPod(ctx, prefix, cmd.String("namespace"))
			if !outcome.Ready() {
				return reportOutcome(outcome)
			}

			syncCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			err = sync.New(restConfig).Sync(syncCtx, sync.Config{
				PodName:   outcome.Pod.Name,
				Namespace: outcome.Pod.Namespace,
				Container: cmd.String("container"),
				Source:    source,
				TargetDir: target,
			})
			if err != nil {
				return err
			}

			slog.Info("sync complete",
				"source", source,
				"pod", outcome.Pod.String(),
				"target", target)
			return nil
		},
	}
}
