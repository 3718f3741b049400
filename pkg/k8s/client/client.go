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

package client

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface to allow easier mocking in
// tests. This enables using fake.NewClientset() wherever a client is needed.
type Interface = kubernetes.Interface

// Config carries the explicit wiring for cluster access. Commands construct
// one from flags and environment; nothing in this package holds process-wide
// mutable state beyond the documented kubeconfig discovery.
type Config struct {
	// Kubeconfig is the path to the kubeconfig file. Empty enables
	// automatic discovery: KUBECONFIG env var, then ~/.kube/config, then
	// in-cluster service account credentials.
	Kubeconfig string

	// Context overrides the kubeconfig's current context.
	Context string
}

// Build creates a Kubernetes clientset and the rest config it was built from.
func Build(cfg Config) (*kubernetes.Clientset, *rest.Config, error) {
	restConfig, err := buildRestConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, restConfig, nil
}

func buildRestConfig(cfg Config) (*rest.Config, error) {
	kubeconfig := resolveKubeconfigPath(cfg.Kubeconfig)

	// Use InClusterConfig directly when no kubeconfig is available.
	if kubeconfig == "" {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return restConfig, nil
	}

	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
		&clientcmd.ConfigOverrides{CurrentContext: cfg.Context},
	)
	restConfig, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return restConfig, nil
}

// resolveKubeconfigPath applies the discovery order: explicit path,
// KUBECONFIG env var, ~/.kube/config if it exists. Empty means in-cluster.
func resolveKubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}

	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}
