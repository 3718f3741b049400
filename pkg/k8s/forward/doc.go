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

// Package forward manages ephemeral port-forward tunnels to pods.
//
// A Session supervises the forwarding goroutine for its whole lifetime:
// Start blocks until the tunnel is usable (or fails fast), Stop tears it
// down. Sessions are identified by UUID rather than tracked through PID
// files, so there is no orphaned-process state to reconcile.
//
// The docker-env helpers bridge a remote container engine socket to the
// local machine, printing eval-able environment exports.
package forward
