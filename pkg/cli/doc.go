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

// Package cli implements the kubeops command line interface.
//
// Each command lives in its own file and is a thin shell over a library
// package: wait and match over pkg/k8s/poller, account over pkg/k8s/account,
// forward over pkg/k8s/forward, sync over pkg/k8s/sync, backup over
// pkg/k8s/backup and pkg/oci, kubeconfig over pkg/kubeconfig. Commands
// parse flags, build cluster access, call the library, and map results to
// exit codes; behavior worth testing lives behind the library APIs.
package cli
