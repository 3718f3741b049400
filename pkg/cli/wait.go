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
	"github.com/clusterkit/kubeops/pkg/k8s/client"
	"github.com/clusterkit/kubeops/pkg/k8s/poller"
)

// Exit codes for wait and match. Scripts branch on these.
const (
	exitReady     = 0
	exitExhausted = 1
	exitTransport = 3
)

func waitCmd() *cli.Command {
	return &cli.Command{
		Name:                  "wait",
		EnableShellCompletion: true,
		Usage:                 "Wait for a pod with the given name prefix to be running",
		ArgsUsage:             "POD_PREFIX",
		Description: `Poll the namespace until a pod whose name starts with POD_PREFIX has been
running for the required number of consecutive checks.

Pods observed in a failed or errored state (CrashLoopBackOff, image pull
failures, OOM kills) are deleted so their controller can replace them, and
polling moves on to the next candidate.

Exit codes:
  0 - a pod became ready
  1 - the trial budget was exhausted without a ready pod
  3 - the cluster API could not be reached

# Examples

Wait for a StatefulSet pod with defaults:
  kubeops wait web-

Tighter budget for CI:
  kubeops wait web- --trials 10 --delay 1s --consecutive 2`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "trials",
				Usage:   "number of listing rounds before giving up",
				Sources: cli.EnvVars("KUBEOPS_WAIT_TRIALS"),
				Value:   defaults.PollTrialLimit,
			},
			&cli.IntFlag{
				Name:  "consecutive",
				Usage: "consecutive running checks required before a pod counts as ready",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:    "delay",
				Usage:   "pause between checks",
				Sources: cli.EnvVars("KUBEOPS_WAIT_DELAY"),
				Value:   defaults.PollDelay,
			},
			&cli.IntFlag{
				Name:  "max-phase-checks",
				Usage: "bound on per-pod phase checks within one trial (0 = unbounded)",
				Value: 0,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "overall deadline for the wait, on top of the trial budget",
				Sources: cli.EnvVars("KUBEOPS_WAIT_TIMEOUT"),
				Value:   defaults.PollTimeout,
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

			p, err := buildPoller(cmd)
			if err != nil {
				return err
			}

			if d := cmd.Duration("timeout"); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			outcome := p.Poll(ctx, prefix, poller.Policy{
				Namespace:          cmd.String("namespace"),
				TrialLimit:         int(cmd.Int("trials")),
				ConsecutiveRunning: int(cmd.Int("consecutive")),
				Delay:              cmd.Duration("delay"),
				MaxPhaseChecks:     int(cmd.Int("max-phase-checks")),
			})
			return reportOutcome(outcome)
		},
	}
}

func matchCmd() *cli.Command {
	return &cli.Command{
		Name:                  "match",
		EnableShellCompletion: true,
		Usage:                 "Check once for a running pod with the given name prefix",
		ArgsUsage:             "POD_PREFIX",
		Description: `Single-shot form of wait: one listing round, one phase check per pod,
no retries. Prints the matched pod name on success.

Exit codes are the same as wait.`,
		Flags: []cli.Flag{
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prefix := cmd.Args().First()
			if prefix == "" {
				return fmt.Errorf("pod name prefix argument is required")
			}

			p, err := buildPoller(cmd)
			if err != nil {
				return err
			}

			outcome := p.MatchPod(ctx, prefix, cmd.String("namespace"))
			return reportOutcome(outcome)
		},
	}
}

// buildPoller wires cluster access from shared flags into a pod poller.
func buildPoller(cmd *cli.Command) (*poller.Poller, error) {
	clientset, _, err := buildClient(cmd)
	if err != nil {
		return nil, err
	}
	resolver := client.NamespaceResolver(clientConfig(cmd))
	return poller.New(poller.NewKubeClient(clientset, poller.NamespaceFunc(resolver))), nil
}

// reportOutcome prints the result and maps it to the documented exit code.
func reportOutcome(outcome poller.Outcome) error {
	switch outcome.Kind {
	case poller.OutcomeReady:
		fmt.Println(outcome.Pod.Name)
		return nil
	case poller.OutcomeExhausted:
		return cli.Exit("no matching pod became ready", exitExhausted)
	default:
		slog.Error("cluster API error", "error", outcome.Err)
		return cli.Exit(fmt.Sprintf("cluster API error: %v", outcome.Err), exitTransport)
	}
}
