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

// Package client builds Kubernetes clientsets from an explicit Config.
//
// Discovery order when no kubeconfig path is given: the KUBECONFIG
// environment variable, ~/.kube/config if present, then in-cluster service
// account credentials. The package deliberately avoids cached singletons:
// each command builds its client once from its own flags and passes it down.
package client
