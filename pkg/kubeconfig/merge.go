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

package kubeconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/clusterkit/kubeops/pkg/errors"
)

// FileMode is the mode for written kubeconfig files. Kubeconfigs carry
// credentials, so group and world access stay off.
const FileMode = os.FileMode(0o600)

// MergeOptions describes one merge run.
type MergeOptions struct {
	// Sources are the kubeconfig files to merge, in precedence order.
	Sources []string

	// Output is the destination path. Overwritten if it exists.
	Output string

	// Force lets later sources overwrite colliding entries. The default
	// keeps the first occurrence and skips the rest.
	Force bool

	// CurrentContext optionally names the context to select in the merged
	// file. It must exist after merging. Empty keeps the first source's
	// current-context.
	CurrentContext string
}

func (o MergeOptions) validate() error {
	if len(o.Sources) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "at least one source kubeconfig is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "output path is required")
	}
	return nil
}

// MergeResult summarizes what a merge produced.
type MergeResult struct {
	// Clusters, Contexts, and Users are the entry names in the merged
	// file, sorted.
	Clusters []string
	Contexts []string
	Users    []string

	// Skipped lists colliding entries that were kept from an earlier
	// source, as "section/name". Empty when Force is set.
	Skipped []string

	// CurrentContext is the selected context in the merged file.
	CurrentContext string
}

// Merge combines kubeconfig files into one. Entries collide by name within
// each section (clusters, contexts, users); the first source to define a
// name wins unless Force is set.
func Merge(opts MergeOptions) (*MergeResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	merged := clientcmdapi.NewConfig()
	res := &MergeResult{}

	for _, src := range opts.Sources {
		cfg, err := clientcmd.LoadFromFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", src, err)
		}

		for name, cluster := range cfg.Clusters {
			if _, exists := merged.Clusters[name]; exists && !opts.Force {
				res.Skipped = append(res.Skipped, "clusters/"+name)
				continue
			}
			merged.Clusters[name] = cluster
		}
		for name, authInfo := range cfg.AuthInfos {
			if _, exists := merged.AuthInfos[name]; exists && !opts.Force {
				res.Skipped = append(res.Skipped, "users/"+name)
				continue
			}
			merged.AuthInfos[name] = authInfo
		}
		for name, kctx := range cfg.Contexts {
			if _, exists := merged.Contexts[name]; exists && !opts.Force {
				res.Skipped = append(res.Skipped, "contexts/"+name)
				continue
			}
			merged.Contexts[name] = kctx
		}

		if cfg.CurrentContext != "" && (merged.CurrentContext == "" || opts.Force) {
			merged.CurrentContext = cfg.CurrentContext
		}
	}

	if opts.CurrentContext != "" {
		if _, ok := merged.Contexts[opts.CurrentContext]; !ok {
			return nil, errors.New(errors.ErrCodeNotFound,
				fmt.Sprintf("context %q not found in merged kubeconfig", opts.CurrentContext))
		}
		merged.CurrentContext = opts.CurrentContext
	}
	res.CurrentContext = merged.CurrentContext

	for name := range merged.Clusters {
		res.Clusters = append(res.Clusters, name)
	}
	for name := range merged.Contexts {
		res.Contexts = append(res.Contexts, name)
	}
	for name := range merged.AuthInfos {
		res.Users = append(res.Users, name)
	}
	sort.Strings(res.Clusters)
	sort.Strings(res.Contexts)
	sort.Strings(res.Users)
	sort.Strings(res.Skipped)

	data, err := clientcmd.Write(*merged)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize merged kubeconfig: %w", err)
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Output, data, FileMode); err != nil {
		return nil, fmt.Errorf("failed to write merged kubeconfig: %w", err)
	}

	slog.Debug("kubeconfig merge complete",
		"sources", len(opts.Sources),
		"contexts", len(res.Contexts),
		"skipped", len(res.Skipped),
		"output", opts.Output)
	return res, nil
}
