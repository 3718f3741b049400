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

// Package poller implements pod readiness polling against a Kubernetes
// cluster.
//
// The poller repeatedly lists pods in a namespace, selects candidates whose
// names start with a given prefix, and watches each candidate's phase until
// one of them is considered ready. Readiness is configurable: a pod can be
// accepted on first sighting in the Running phase, or only after a number of
// strictly consecutive Running observations.
//
// Pods observed in a terminal failure state (Failed, or a synthesized Error
// phase derived from container status) are deleted best-effort and excluded
// from the current trial. The poller owns no state between invocations; the
// cluster is the single source of truth.
//
// Usage:
//
//	p := poller.New(poller.NewKubeClient(clientset, nsFn))
//	outcome := p.Poll(ctx, "web-", poller.Policy{
//		TrialLimit:         10,
//		ConsecutiveRunning: 2,
//		Delay:              2 * time.Second,
//	})
//	if outcome.Ready() {
//		fmt.Println("pod ready:", outcome.Pod.Name)
//	}
//
// The cluster boundary is the ClusterClient interface, so tests can drive the
// poller with scripted phase sequences without a live API server.
package poller
