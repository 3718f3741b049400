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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// lastAppliedAnnotation is client-side bookkeeping that does not belong in
// an exported definition.
const lastAppliedAnnotation = "kubectl.kubernetes.io/last-applied-configuration"

// stripMeta removes server-populated fields so the exported definition can
// be re-applied to another cluster.
func stripMeta(meta *metav1.ObjectMeta) {
	meta.ManagedFields = nil
	meta.UID = ""
	meta.ResourceVersion = ""
	meta.Generation = 0
	meta.CreationTimestamp = metav1.Time{}
	meta.DeletionTimestamp = nil
	meta.DeletionGracePeriodSeconds = nil
	delete(meta.Annotations, lastAppliedAnnotation)
	if len(meta.Annotations) == 0 {
		meta.Annotations = nil
	}
}

// stripClaimRef removes the server-populated identity fields from a volume's
// claim reference while keeping the name and namespace that express the
// binding itself.
func stripClaimRef(ref *corev1.ObjectReference) {
	if ref == nil {
		return
	}
	ref.UID = ""
	ref.ResourceVersion = ""
}
