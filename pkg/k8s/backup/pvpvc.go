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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// exportVolumes writes the cluster's persistent volumes and resolves each
// volume's bound claim into a Binding. A claim reference only counts as a
// binding when its kind, API version, name, and namespace are all populated.
func (e *Exporter) exportVolumes(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, []Binding, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	list, err := e.clientset.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list persistent volumes: %w", err)
	}

	var (
		entries  []Entry
		bindings []Binding
	)
	for i := range list.Items {
		pv := list.Items[i]
		if !volumeMatches(&pv, cfg.VolumeTypes) {
			continue
		}

		binding := Binding{Volume: pv.Name}
		if ref := pv.Spec.ClaimRef; ref != nil &&
			ref.Kind != "" && ref.APIVersion != "" && ref.Name != "" && ref.Namespace != "" {
			binding.ClaimName = ref.Name
			binding.ClaimNamespace = ref.Namespace
		} else if ref != nil {
			slog.Debug("persistent volume has incomplete claim reference",
				"volume", pv.Name)
		}
		bindings = append(bindings, binding)

		pv.TypeMeta = metav1.TypeMeta{Kind: "PersistentVolume", APIVersion: "v1"}
		stripMeta(&pv.ObjectMeta)
		stripClaimRef(pv.Spec.ClaimRef)
		pv.Status = corev1.PersistentVolumeStatus{}

		entry, err := save(cfg.OutputDir, KindPersistentVolume, clusterScopeDir, pv.Name, &pv, 0o644)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, bindings, nil
}

// volumeMatches reports whether the volume is backed by one of the named
// sources. The names are the JSON field names of the volume source, e.g.
// "nfs" or "hostPath". An empty filter matches everything.
func volumeMatches(pv *corev1.PersistentVolume, types []string) bool {
	if len(types) == 0 {
		return true
	}

	raw, err := json.Marshal(pv.Spec.PersistentVolumeSource)
	if err != nil {
		return false
	}
	var sources map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sources); err != nil {
		return false
	}

	for _, t := range types {
		if _, ok := sources[t]; ok {
			return true
		}
	}
	return false
}
