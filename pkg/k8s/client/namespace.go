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

	"k8s.io/client-go/tools/clientcmd"
)

// CurrentNamespace resolves the default namespace of the active kubeconfig
// context. Falls back to "default" when the context sets none. In-cluster
// callers (no kubeconfig) also resolve to "default"; workloads that care
// should pass an explicit namespace instead.
func CurrentNamespace(cfg Config) (string, error) {
	kubeconfig := resolveKubeconfigPath(cfg.Kubeconfig)
	if kubeconfig == "" {
		return "default", nil
	}

	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
		&clientcmd.ConfigOverrides{CurrentContext: cfg.Context},
	)
	ns, _, err := loader.Namespace()
	if err != nil {
		return "", fmt.Errorf("failed to resolve namespace from %s: %w", kubeconfig, err)
	}
	return ns, nil
}

// NamespaceResolver returns a function resolving the default namespace for
// the given config, suitable for injection into components that defer the
// lookup until needed.
func NamespaceResolver(cfg Config) func() (string, error) {
	return func() (string, error) {
		return CurrentNamespace(cfg)
	}
}
