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

// Package backup exports cluster resource definitions to a file tree.
//
// One namespace per run: pods, services, configmaps, secrets, service
// accounts, and persistent volume claims land under
// <dir>/<namespace>/<kind>/<name>.yaml, cluster-scoped persistent volumes
// under <dir>/_cluster/persistentvolumes/. Server-populated metadata and
// status are stripped so the files can be re-applied elsewhere. An index
// manifest at the root lists every exported definition and the
// volume-to-claim bindings observed at export time.
//
// The export is a definition snapshot, not a disaster-recovery engine:
// no volume data is copied.
package backup
