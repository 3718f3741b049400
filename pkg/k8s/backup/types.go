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
	"time"

	"golang.org/x/time/rate"

	"github.com/clusterkit/kubeops/pkg/defaults"
	"github.com/clusterkit/kubeops/pkg/errors"
)

// Resource kind directory names used in the output layout.
const (
	KindPod                   = "pods"
	KindService               = "services"
	KindConfigMap             = "configmaps"
	KindSecret                = "secrets"
	KindServiceAccount        = "serviceaccounts"
	KindPersistentVolumeClaim = "persistentvolumeclaims"
	KindPersistentVolume      = "persistentvolumes"
)

// clusterScopeDir holds cluster-scoped resources, which have no namespace
// directory of their own.
const clusterScopeDir = "_cluster"

// indexFile is the manifest written at the root of every backup.
const indexFile = "index.yaml"

// Config describes one backup run.
type Config struct {
	// Namespace to export. Required.
	Namespace string

	// OutputDir is the directory the backup tree is written under.
	OutputDir string

	// VolumeTypes optionally restricts the persistent volume export to
	// volumes backed by the named sources (e.g. "nfs", "hostPath").
	// Empty exports all.
	VolumeTypes []string

	// RateLimit and Burst bound API request throughput. Zero values use
	// the project defaults.
	RateLimit rate.Limit
	Burst     int
}

func (c Config) validate() error {
	if c.Namespace == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "namespace is required")
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "output directory is required")
	}
	return nil
}

func (c Config) limiter() *rate.Limiter {
	limit := c.RateLimit
	if limit <= 0 {
		limit = rate.Limit(defaults.BackupAPIRate)
	}
	burst := c.Burst
	if burst <= 0 {
		burst = defaults.BackupAPIBurst
	}
	return rate.NewLimiter(limit, burst)
}

// Entry records one exported resource definition.
type Entry struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	File      string `json:"file"`
}

// Binding records a persistent volume and the claim bound to it, if any.
type Binding struct {
	Volume         string `json:"volume"`
	ClaimName      string `json:"claimName,omitempty"`
	ClaimNamespace string `json:"claimNamespace,omitempty"`
}

// Result is the backup manifest, serialized as the index file at the root
// of the output tree.
type Result struct {
	Namespace string    `json:"namespace"`
	Taken     time.Time `json:"taken"`
	Entries   []Entry   `json:"entries"`
	Bindings  []Binding `json:"bindings,omitempty"`
}
