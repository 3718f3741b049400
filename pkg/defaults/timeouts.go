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

package defaults

import "time"

// Poller defaults for pod readiness polling.
const (
	// PollDelay is the default sleep between phase fetches and trials.
	PollDelay = 2 * time.Second

	// PollTrialLimit is the default number of listing passes.
	PollTrialLimit = 30

	// PollTimeout is the default overall deadline for a wait command.
	// Applies through the context, on top of the trial budget.
	PollTimeout = 5 * time.Minute
)

// Kubernetes timeouts for direct API operations.
const (
	// K8sRequestTimeout is the per-call timeout for one-shot API requests
	// (create, get, delete of a single resource).
	K8sRequestTimeout = 30 * time.Second

	// K8sCleanupTimeout is the timeout for cleanup operations.
	K8sCleanupTimeout = 30 * time.Second
)

// ServiceAccount token defaults.
const (
	// TokenExpiration is the default validity of minted bearer tokens.
	TokenExpiration = time.Hour

	// TokenMinExpiration is the API server's floor for token validity.
	TokenMinExpiration = 10 * time.Minute
)

// Port-forward session defaults.
const (
	// ForwardReadyTimeout is how long a session start waits for the first
	// forwarded port to become available.
	ForwardReadyTimeout = 15 * time.Second

	// ForwardStopTimeout is the grace period for a session to wind down.
	ForwardStopTimeout = 5 * time.Second
)

// Sync and backup defaults.
const (
	// SyncExecTimeout is the deadline for streaming a file archive into a
	// running pod.
	SyncExecTimeout = 2 * time.Minute

	// BackupTimeout is the overall deadline for a resource backup pass.
	BackupTimeout = 10 * time.Minute

	// BackupAPIRate is the sustained Kubernetes API request rate during
	// backup collection.
	BackupAPIRate = 10.0

	// BackupAPIBurst is the burst allowance on top of BackupAPIRate.
	BackupAPIBurst = 5
)
