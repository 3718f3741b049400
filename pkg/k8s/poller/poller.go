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

package poller

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"k8s.io/utils/clock"

	"github.com/clusterkit/kubeops/pkg/errors"
)

// Poller finds the first pod matching a name prefix that satisfies a
// readiness policy. Each Poll invocation is independent; the only shared
// resource is the cluster itself.
type Poller struct {
	client ClusterClient
	clock  clock.Clock
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock overrides the wall clock, used by tests to avoid real sleeps.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// New creates a Poller over the given cluster client.
func New(client ClusterClient, opts ...Option) *Poller {
	p := &Poller{
		client: client,
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll repeatedly lists pods in the target namespace and returns the first
// pod whose name starts with namePrefix and whose observed phases satisfy the
// policy. Ties between simultaneously ready pods are broken by listing order.
//
// A listing failure aborts the call with a transport-error outcome. A phase
// fetch failure only abandons that candidate. Pods observed in Failed or
// Error phase are deleted best-effort and excluded from the current trial.
//
// Cancellation of ctx surfaces as a transport-error outcome wrapping the
// context error; use it to bound an unbounded policy.
func (p *Poller) Poll(ctx context.Context, namePrefix string, policy Policy) Outcome {
	start := p.clock.Now()
	outcome := p.poll(ctx, namePrefix, policy)
	observePoll(outcome.Kind, p.clock.Since(start))
	return outcome
}

func (p *Poller) poll(ctx context.Context, namePrefix string, policy Policy) Outcome {
	if namePrefix == "" {
		return TransportErrorOutcome(errors.New(errors.ErrCodeInvalidRequest, "pod name prefix is required"))
	}

	namespace := policy.Namespace
	if namespace == "" {
		ns, err := p.client.CurrentNamespace()
		if err != nil {
			return TransportErrorOutcome(errors.Wrap(errors.ErrCodeTransport, "failed to resolve current namespace", err))
		}
		namespace = ns
	}

	for trial := 1; ; trial++ {
		if err := ctx.Err(); err != nil {
			return TransportErrorOutcome(errors.Wrap(errors.ErrCodeTransport, "poll canceled", err))
		}

		pods, err := p.client.ListPods(ctx, namespace)
		if err != nil {
			return TransportErrorOutcome(errors.Wrap(errors.ErrCodeTransport, "failed to list pods", err))
		}
		pollTrials.Inc()

		if policy.Debug {
			slog.Debug("poll trial",
				"trial", trial,
				"namespace", namespace,
				"prefix", namePrefix,
				"pods", len(pods))
		}

		for _, pod := range pods {
			if !strings.HasPrefix(pod.Name, namePrefix) {
				continue
			}
			if outcome, ready := p.observeCandidate(ctx, pod, policy); ready {
				return outcome
			} else if outcome.Kind == OutcomeTransportError {
				return outcome
			}
		}

		if policy.TrialLimit > 0 && trial >= policy.TrialLimit {
			return ExhaustedOutcome()
		}

		if err := p.sleep(ctx, policy.Delay); err != nil {
			return TransportErrorOutcome(errors.Wrap(errors.ErrCodeTransport, "poll canceled", err))
		}
	}
}

// observeCandidate runs the per-pod readiness loop. It returns (outcome, true)
// when the pod reached readiness, and otherwise an outcome whose kind signals
// whether polling should continue (the candidate was merely abandoned) or the
// whole call must stop (context canceled during a sleep).
func (p *Poller) observeCandidate(ctx context.Context, pod PodRef, policy Policy) (Outcome, bool) {
	consecutive := 0
	checks := 0

	for {
		phase, err := p.client.GetPodPhase(ctx, pod)
		if err != nil {
			// Abandon this candidate, keep polling others.
			if policy.Debug {
				slog.Debug("phase fetch failed, skipping candidate", "pod", pod.String(), "error", err)
			}
			return ExhaustedOutcome(), false
		}
		checks++

		if policy.Debug {
			slog.Debug("observed phase",
				"pod", pod.String(),
				"phase", phase,
				"consecutive", consecutive,
				"checks", checks)
		}

		switch phase {
		case PhaseRunning:
			consecutive++
			if consecutive >= policy.ConsecutiveRunning {
				return ReadyOutcome(pod), true
			}
		case PhaseFailed, PhaseError:
			// Incidental cleanup; deletion failure does not abort the poll.
			if delErr := p.client.DeletePod(ctx, pod); delErr != nil {
				slog.Warn("failed to delete pod in terminal phase",
					"pod", pod.String(),
					"phase", phase,
					"error", delErr)
			} else {
				podsDeleted.Inc()
			}
			return ExhaustedOutcome(), false
		default:
			consecutive = 0
		}

		if policy.MaxPhaseChecks > 0 && checks >= policy.MaxPhaseChecks {
			return ExhaustedOutcome(), false
		}

		if err := p.sleep(ctx, policy.Delay); err != nil {
			return TransportErrorOutcome(errors.Wrap(errors.ErrCodeTransport, "poll canceled", err)), false
		}
	}
}

// MatchPod takes a single immediate snapshot: it returns a ready outcome for
// the first pod with the prefix currently in the Running phase, or exhausted
// when none exists. No sleeping, no confirmation passes.
func (p *Poller) MatchPod(ctx context.Context, namePrefix, namespace string) Outcome {
	return p.Poll(ctx, namePrefix, Policy{
		Namespace:      namespace,
		TrialLimit:     1,
		MaxPhaseChecks: 1,
	})
}

// sleep blocks for d or until ctx is canceled. A non-positive d still honors
// pending cancellation.
func (p *Poller) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := p.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}
