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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollTrials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubeops_poll_trials_total",
			Help: "Total number of pod listing passes performed by the poller",
		},
	)

	podsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubeops_poll_pods_deleted_total",
			Help: "Total number of pods deleted after being observed in a terminal phase",
		},
	)

	pollOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubeops_poll_outcomes_total",
			Help: "Total number of poll invocations by outcome kind",
		},
		[]string{"kind"},
	)

	pollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubeops_poll_duration_seconds",
			Help:    "Duration of poll invocations in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)
)

func observePoll(kind OutcomeKind, elapsed time.Duration) {
	pollOutcomes.WithLabelValues(string(kind)).Inc()
	pollDuration.Observe(elapsed.Seconds())
}
