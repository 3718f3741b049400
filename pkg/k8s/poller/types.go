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
	"time"
)

// PodRef identifies a single pod instance. Immutable once observed.
type PodRef struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// String returns the namespace/name form used in logs and CLI output.
func (r PodRef) String() string {
	return r.Namespace + "/" + r.Name
}

// Phase is the coarse-grained pod lifecycle status reported per poll.
//
// Terminating and Error are not native API phases: Terminating is synthesized
// when a pod has a deletion timestamp, and Error when a container reports a
// terminal error reason while the API phase is still Pending or Running.
type Phase string

const (
	PhasePending     Phase = "Pending"
	PhaseRunning     Phase = "Running"
	PhaseFailed      Phase = "Failed"
	PhaseError       Phase = "Error"
	PhaseSucceeded   Phase = "Succeeded"
	PhaseTerminating Phase = "Terminating"
	PhaseUnknown     Phase = "Unknown"
)

// Policy configures a single Poll invocation.
type Policy struct {
	// Namespace is the target namespace. Empty resolves to the cluster
	// client's current default namespace.
	Namespace string

	// TrialLimit bounds the number of full listing passes. Zero retries
	// indefinitely; the caller is then responsible for bounding the call
	// through the context.
	TrialLimit int

	// ConsecutiveRunning is the number of strictly consecutive Running
	// observations required before a pod is considered ready. Any
	// non-Running observation resets the count for that pod. Zero accepts
	// a pod on first Running sighting.
	ConsecutiveRunning int

	// Delay is the constant sleep between phase fetches and between trials.
	Delay time.Duration

	// MaxPhaseChecks bounds the per-pod phase fetch loop within a trial.
	// Zero leaves the loop unbounded, matching the historical behavior of
	// trusting the outer trial limit or the context to terminate the call.
	MaxPhaseChecks int

	// Debug enables diagnostic trace logging of every observation.
	Debug bool
}

// OutcomeKind tags the result of a Poll invocation.
type OutcomeKind string

const (
	// OutcomeReady means a candidate pod satisfied the readiness policy.
	OutcomeReady OutcomeKind = "ready"
	// OutcomeExhausted means no candidate became ready within the trial
	// budget. A normal result, not an error.
	OutcomeExhausted OutcomeKind = "exhausted"
	// OutcomeTransportError means a cluster API call failed outright.
	OutcomeTransportError OutcomeKind = "transport-error"
)

// Outcome is the tagged result of a Poll invocation. Exactly one of the
// optional fields is set, depending on Kind.
type Outcome struct {
	Kind OutcomeKind `json:"kind" yaml:"kind"`
	Pod  *PodRef     `json:"pod,omitempty" yaml:"pod,omitempty"`
	Err  error       `json:"-" yaml:"-"`
}

// Ready reports whether the outcome carries a ready pod.
func (o Outcome) Ready() bool { return o.Kind == OutcomeReady }

// ReadyOutcome builds an Outcome for a pod that satisfied the policy.
func ReadyOutcome(ref PodRef) Outcome {
	return Outcome{Kind: OutcomeReady, Pod: &ref}
}

// ExhaustedOutcome builds an Outcome for an exhausted trial budget.
func ExhaustedOutcome() Outcome {
	return Outcome{Kind: OutcomeExhausted}
}

// TransportErrorOutcome builds an Outcome for a failed cluster API call.
func TransportErrorOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeTransportError, Err: err}
}

// ClusterClient is the boundary to the orchestrator. The production
// implementation wraps a Kubernetes clientset; tests supply scripted fakes.
type ClusterClient interface {
	// ListPods returns all pods in the namespace, in listing order.
	ListPods(ctx context.Context, namespace string) ([]PodRef, error)

	// GetPodPhase returns the current phase of the pod. A missing pod is
	// a fetch failure, not a phase.
	GetPodPhase(ctx context.Context, ref PodRef) (Phase, error)

	// DeletePod removes the pod. Callers treat failures as best-effort.
	DeletePod(ctx context.Context, ref PodRef) error

	// CurrentNamespace resolves the caller's default namespace.
	CurrentNamespace() (string, error)
}
