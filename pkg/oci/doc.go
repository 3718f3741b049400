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

// Package oci publishes backup trees to OCI-compliant registries.
//
// A backup directory is packed as a single-layer OCI 1.1 artifact and
// copied to the remote repository with ORAS. Targets use the
// "oci://registry/repository:tag" URI form; anything without the scheme
// is a local path and stays out of this package's hands. Authentication
// uses the standard Docker credential store.
package oci
