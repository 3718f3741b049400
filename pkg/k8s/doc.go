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

// Package k8s groups the Kubernetes-facing sub-packages.
//
// # Sub-packages
//
// client: cluster access construction from kubeconfig or in-cluster config.
// Clients are built explicitly and passed down; there is no shared global.
//
//	clientset, restConfig, err := client.Build(client.Config{})
//
// poller: pod readiness polling with bounded trial budgets.
//
// account: service account lifecycle and TokenRequest bearer tokens.
//
// forward: supervised port-forward sessions.
//
// sync: streaming local files into running pods over exec.
//
// backup: exporting resource definitions to a file tree.
//
// All blocking operations take a context.Context. Cluster access is
// injected: packages driving typed API calls accept kubernetes.Interface so
// tests run against fake clientsets; sync and forward, which speak the
// streaming subresources, take the rest.Config their transports need.
package k8s
