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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespace = "test-ns"

// fakeCluster is a scripted ClusterClient. Each pod name maps to a sequence
// of phases returned on successive fetches; the last entry repeats.
type fakeCluster struct {
	pods     []PodRef
	listErr  error
	phases   map[string][]Phase
	phaseErr map[string]error
	delErr   map[string]error

	listCalls  int
	phaseCalls map[string]int
	deleted    []PodRef
}

func newFakeCluster(pods ...PodRef) *fakeCluster {
	return &fakeCluster{
		pods:       pods,
		phases:     map[string][]Phase{},
		phaseErr:   map[string]error{},
		delErr:     map[string]error{},
		phaseCalls: map[string]int{},
	}
}

func (f *fakeCluster) ListPods(_ context.Context, _ string) ([]PodRef, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pods, nil
}

func (f *fakeCluster) GetPodPhase(_ context.Context, ref PodRef) (Phase, error) {
	if err := f.phaseErr[ref.Name]; err != nil {
		return PhaseUnknown, err
	}
	seq := f.phases[ref.Name]
	if len(seq) == 0 {
		return PhaseUnknown, errors.New("no scripted phase")
	}
	i := f.phaseCalls[ref.Name]
	f.phaseCalls[ref.Name]++
	if i >= len(seq) {
		i = len(seq) - 1
	}
	return seq[i], nil
}

func (f *fakeCluster) DeletePod(_ context.Context, ref PodRef) error {
	f.deleted = append(f.deleted, ref)
	return f.delErr[ref.Name]
}

func (f *fakeCluster) CurrentNamespace() (string, error) {
	return testNamespace, nil
}

func pod(name string) PodRef {
	return PodRef{Name: name, Namespace: testNamespace}
}

func matchPolicy() Policy {
	return Policy{TrialLimit: 1, MaxPhaseChecks: 1}
}

func TestPollMatchesFirstRunningPod(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	require.NotNil(t, outcome.Pod)
	assert.Equal(t, "web-1", outcome.Pod.Name)
	assert.Equal(t, testNamespace, outcome.Pod.Namespace)
}

func TestPollExhaustedWhenNothingRunning(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhasePending}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Equal(t, 1, cluster.listCalls)
}

func TestPollListingFailureIsTransportError(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.listErr = errors.New("connection refused")
	cluster.phases["web-1"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	assert.Equal(t, OutcomeTransportError, outcome.Kind)
	require.Error(t, outcome.Err)
	// No phase fetch may happen after a failed listing.
	assert.Zero(t, cluster.phaseCalls["web-1"])
}

func TestPollConsecutiveRunningResetsOnInterruption(t *testing.T) {
	// Pending interleaved between Running observations resets the counter,
	// so the pod never reaches two consecutive Running sightings within the
	// bounded check budget.
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning, PhasePending, PhaseRunning, PhasePending}

	outcome := New(cluster).Poll(context.Background(), "web-", Policy{
		TrialLimit:         1,
		ConsecutiveRunning: 2,
		MaxPhaseChecks:     4,
	})

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Equal(t, 4, cluster.phaseCalls["web-1"])
}

func TestPollConsecutiveRunningSatisfied(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning, PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", Policy{
		TrialLimit:         1,
		ConsecutiveRunning: 2,
	})

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-1", outcome.Pod.Name)
	assert.Equal(t, 2, cluster.phaseCalls["web-1"])
}

func TestPollDeletesFailedPodOnce(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"), pod("web-2"))
	cluster.phases["web-1"] = []Phase{PhaseFailed}
	cluster.phases["web-2"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-2", outcome.Pod.Name)
	require.Len(t, cluster.deleted, 1)
	assert.Equal(t, "web-1", cluster.deleted[0].Name)
}

func TestPollDeletionFailureDoesNotAbort(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"), pod("web-2"))
	cluster.phases["web-1"] = []Phase{PhaseError}
	cluster.phases["web-2"] = []Phase{PhaseRunning}
	cluster.delErr["web-1"] = errors.New("forbidden")

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-2", outcome.Pod.Name)
	assert.Len(t, cluster.deleted, 1)
}

func TestPollTrialLimitBoundsListings(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhasePending}

	outcome := New(cluster).Poll(context.Background(), "web-", Policy{
		TrialLimit:     3,
		MaxPhaseChecks: 1,
	})

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Equal(t, 3, cluster.listCalls)
}

func TestPollFirstListedWins(t *testing.T) {
	cluster := newFakeCluster(pod("web-2"), pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning}
	cluster.phases["web-2"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", Policy{
		TrialLimit:         1,
		ConsecutiveRunning: 1,
	})

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-2", outcome.Pod.Name)
	// Short-circuit: the second candidate is never observed.
	assert.Zero(t, cluster.phaseCalls["web-1"])
}

func TestPollEmptyListingExhaustsWithoutPhaseFetch(t *testing.T) {
	cluster := newFakeCluster()

	outcome := New(cluster).Poll(context.Background(), "web-", Policy{TrialLimit: 1})

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Equal(t, 1, cluster.listCalls)
	assert.Empty(t, cluster.phaseCalls)
}

func TestPollIgnoresNonMatchingNames(t *testing.T) {
	cluster := newFakeCluster(pod("db-1"), pod("web-1"))
	cluster.phases["db-1"] = []Phase{PhaseRunning}
	cluster.phases["web-1"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-1", outcome.Pod.Name)
	assert.Zero(t, cluster.phaseCalls["db-1"])
}

func TestPollPhaseFetchFailureSkipsCandidate(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"), pod("web-2"))
	cluster.phaseErr["web-1"] = errors.New("pod not found")
	cluster.phases["web-2"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, "web-2", outcome.Pod.Name)
}

func TestPollCanceledContext(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := New(cluster).Poll(ctx, "web-", matchPolicy())

	assert.Equal(t, OutcomeTransportError, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	assert.Zero(t, cluster.listCalls)
}

func TestPollEmptyPrefixRejected(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))

	outcome := New(cluster).Poll(context.Background(), "", matchPolicy())

	assert.Equal(t, OutcomeTransportError, outcome.Kind)
	assert.Zero(t, cluster.listCalls)
}

func TestPollDefaultsToCurrentNamespace(t *testing.T) {
	cluster := newFakeCluster(pod("web-1"))
	cluster.phases["web-1"] = []Phase{PhaseRunning}

	outcome := New(cluster).Poll(context.Background(), "web-", matchPolicy())

	require.Equal(t, OutcomeReady, outcome.Kind)
	assert.Equal(t, testNamespace, outcome.Pod.Namespace)
}

func TestMatchPodIsSingleSnapshot(t *testing.T) {
	t.Run("running pod matches", func(t *testing.T) {
		cluster := newFakeCluster(pod("job-abc"))
		cluster.phases["job-abc"] = []Phase{PhaseRunning}

		outcome := New(cluster).MatchPod(context.Background(), "job-", testNamespace)

		require.Equal(t, OutcomeReady, outcome.Kind)
		assert.Equal(t, "job-abc", outcome.Pod.Name)
		assert.Equal(t, 1, cluster.listCalls)
	})

	t.Run("pending pod does not match", func(t *testing.T) {
		cluster := newFakeCluster(pod("job-abc"))
		cluster.phases["job-abc"] = []Phase{PhasePending}

		outcome := New(cluster).MatchPod(context.Background(), "job-", testNamespace)

		assert.Equal(t, OutcomeExhausted, outcome.Kind)
		assert.Equal(t, 1, cluster.listCalls)
		assert.Equal(t, 1, cluster.phaseCalls["job-abc"])
	})

	t.Run("no pods", func(t *testing.T) {
		cluster := newFakeCluster()

		outcome := New(cluster).MatchPod(context.Background(), "job-", testNamespace)

		assert.Equal(t, OutcomeExhausted, outcome.Kind)
	})
}

func TestOutcomeHelpers(t *testing.T) {
	ready := ReadyOutcome(pod("web-1"))
	assert.True(t, ready.Ready())
	assert.Equal(t, "test-ns/web-1", ready.Pod.String())

	assert.False(t, ExhaustedOutcome().Ready())
	assert.False(t, TransportErrorOutcome(errors.New("boom")).Ready())
}
