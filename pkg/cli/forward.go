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
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clusterkit/kubeops/pkg/defaults"
	"github.com/clusterkit/kubeops/pkg/k8s/forward"
)

func forwardCmd() *cli.Command {
	return &cli.Command{
		Name:                  "forward",
		EnableShellCompletion: true,
		Usage:                 "Forward pod ports to the local machine",
		Commands: []*cli.Command{
			forwardDockerEnvCmd(),
		},
	}
}

func forwardDockerEnvCmd() *cli.Command {
	return &cli.Command{
		Name:      "docker-env",
		Usage:     "Bridge a remote container engine socket to the local docker client",
		ArgsUsage: "POD_PREFIX",
		Description: `Wait for a pod whose name starts with POD_PREFIX, forward its container
engine port to a local loopback port, and print eval-able shell exports.
The tunnel stays up until the command is interrupted.

# Examples

Point the local docker client at a dind pod:
  eval "$(kubeops forward docker-env dind- -n ci)"
  docker ps`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "local-port",
				Usage: "local listening port (0: pick an ephemeral port)",
			},
			&cli.IntFlag{
				Name:  "remote-port",
				Usage: "container engine port on the pod",
				Value: forward.DefaultEnginePort,
			},
			&cli.DurationFlag{
				Name:  "ready-timeout",
				Usage: "how long to wait for the tunnel to come up",
				Value: defaults.ForwardReadyTimeout,
			},
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prefix := cmd.Args().First()
			if prefix == "" {
				return fmt.Errorf("pod name prefix argument is required")
			}

			clientset, restConfig, err := buildClient(cmd)
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

			session, err := forward.NewPodSession(clientset, restConfig, forward.Config{
				PodName:      outcome.Pod.Name,
				Namespace:    outcome.Pod.Namespace,
				LocalPort:    int(cmd.Int("local-port")),
				RemotePort:   int(cmd.Int("remote-port")),
				ReadyTimeout: cmd.Duration("ready-timeout"),
				ErrOut:       os.Stderr,
			})
			if err != nil {
				return err
			}
			defer session.Stop()

			if err := session.Start(ctx); err != nil {
				return err
			}

			for _, line := range forward.DockerEnv(session.Addr()) {
				fmt.Println(line)
			}
			slog.Info("tunnel ready",
				"session", session.ID(),
				"pod", outcome.Pod.String(),
				"addr", session.Addr())

			// Hold the tunnel open until interrupted.
			<-ctx.Done()
			return nil
		},
	}
}
