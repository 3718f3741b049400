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

package backup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backupResources = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kubeops_backup_resources_total",
		Help: "Resource definitions exported, by kind.",
	}, []string{"kind"})

	backupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kubeops_backup_runs_total",
		Help: "Backup runs by terminal status.",
	}, []string{"status"})

	backupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kubeops_backup_duration_seconds",
		Help:    "Wall-clock duration of backup runs.",
		Buckets: prometheus.DefBuckets,
	})
)
