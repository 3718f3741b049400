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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/yaml"
)

// Exporter writes cluster resource definitions to a file tree.
type Exporter struct {
	clientset kubernetes.Interface
}

// New creates an Exporter bound to the given cluster access.
func New(clientset kubernetes.Interface) *Exporter {
	return &Exporter{clientset: clientset}
}

// Run exports the configured namespace and the cluster's persistent volumes,
// one YAML definition per file under cfg.OutputDir, and writes an index
// manifest at the root. Collectors run concurrently; API calls share a rate
// limiter so a large namespace does not hammer the server.
func (e *Exporter) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		backupDuration.Observe(time.Since(start).Seconds())
	}()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := cfg.limiter()
	res := &Result{
		Namespace: cfg.Namespace,
		Taken:     start.UTC(),
	}
	var mu sync.Mutex

	record := func(entries []Entry, bindings []Binding) {
		mu.Lock()
		res.Entries = append(res.Entries, entries...)
		res.Bindings = append(res.Bindings, bindings...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := e.exportPods(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, err := e.exportServices(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, err := e.exportConfigMaps(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, err := e.exportSecrets(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, err := e.exportServiceAccounts(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, err := e.exportClaims(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, nil)
		return nil
	})
	g.Go(func() error {
		entries, bindings, err := e.exportVolumes(gctx, cfg, limiter)
		if err != nil {
			return err
		}
		record(entries, bindings)
		return nil
	})

	if err := g.Wait(); err != nil {
		backupRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	sort.Slice(res.Entries, func(i, j int) bool {
		a, b := res.Entries[i], res.Entries[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	sort.Slice(res.Bindings, func(i, j int) bool {
		return res.Bindings[i].Volume < res.Bindings[j].Volume
	})

	if err := writeIndex(cfg.OutputDir, res); err != nil {
		backupRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	backupRuns.WithLabelValues("success").Inc()
	slog.Debug("backup complete",
		"namespace", cfg.Namespace,
		"resources", len(res.Entries),
		"dir", cfg.OutputDir)
	return res, nil
}

func (e *Exporter) exportPods(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().Pods(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		pod := list.Items[i]
		pod.TypeMeta = metav1.TypeMeta{Kind: "Pod", APIVersion: "v1"}
		stripMeta(&pod.ObjectMeta)
		pod.Status = corev1.PodStatus{}
		entry, err := save(cfg.OutputDir, KindPod, cfg.Namespace, pod.Name, &pod, 0o644)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Exporter) exportServices(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().Services(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		svc := list.Items[i]
		svc.TypeMeta = metav1.TypeMeta{Kind: "Service", APIVersion: "v1"}
		stripMeta(&svc.ObjectMeta)
		svc.Status = corev1.ServiceStatus{}
		entry, err := save(cfg.OutputDir, KindService, cfg.Namespace, svc.Name, &svc, 0o644)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Exporter) exportConfigMaps(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().ConfigMaps(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list configmaps: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		cm := list.Items[i]
		cm.TypeMeta = metav1.TypeMeta{Kind: "ConfigMap", APIVersion: "v1"}
		stripMeta(&cm.ObjectMeta)
		entry, err := save(cfg.OutputDir, KindConfigMap, cfg.Namespace, cm.Name, &cm, 0o644)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Exporter) exportSecrets(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().Secrets(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		sec := list.Items[i]
		sec.TypeMeta = metav1.TypeMeta{Kind: "Secret", APIVersion: "v1"}
		stripMeta(&sec.ObjectMeta)
		// Secret payloads get a tighter mode than the rest of the tree.
		entry, err := save(cfg.OutputDir, KindSecret, cfg.Namespace, sec.Name, &sec, 0o600)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Exporter) exportServiceAccounts(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().ServiceAccounts(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list service accounts: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		sa := list.Items[i]
		sa.TypeMeta = metav1.TypeMeta{Kind: "ServiceAccount", APIVersion: "v1"}
		stripMeta(&sa.ObjectMeta)
		entry, err := save(cfg.OutputDir, KindServiceAccount, cfg.Namespace, sa.Name, &sa, 0o644)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Exporter) exportClaims(ctx context.Context, cfg Config, limiter *rate.Limiter) ([]Entry, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := e.clientset.CoreV1().PersistentVolumeClaims(cfg.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list persistent volume claims: %w", err)
	}
	entries := make([]Entry, 0, len(list.Items))
	for i := range list.Items {
		pvc := list.Items[i]
		pvc.TypeMeta = metav1.TypeMeta{Kind: "PersistentVolumeClaim", APIVersion: "v1"}
		stripMeta(&pvc.ObjectMeta)
		pvc.Status = corev1.PersistentVolumeClaimStatus{}
		entry, err := save(cfg.OutputDir, KindPersistentVolumeClaim, cfg.Namespace, pvc.Name, &pvc, 0o644)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// save writes one definition as YAML under <root>/<scope>/<kind>/<name>.yaml
// and returns its index entry. scope is the namespace for namespaced kinds
// and the cluster-scope directory otherwise.
func save(root, kind, scope, name string, obj any, mode os.FileMode) (Entry, error) {
	dir := filepath.Join(root, scope, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(obj)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal %s/%s: %w", kind, name, err)
	}

	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, data, mode); err != nil {
		return Entry{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	backupResources.WithLabelValues(kind).Inc()

	entry := Entry{
		Kind: kind,
		Name: name,
		File: filepath.ToSlash(filepath.Join(scope, kind, name+".yaml")),
	}
	if scope != clusterScopeDir {
		entry.Namespace = scope
	}
	return entry, nil
}

func writeIndex(root string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal backup index: %w", err)
	}
	path := filepath.Join(root, indexFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup index: %w", err)
	}
	return nil
}
