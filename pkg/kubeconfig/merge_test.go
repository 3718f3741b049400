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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	kerrors "github.com/clusterkit/kubeops/pkg/errors"
)

func writeConfig(t *testing.T, name string, cfg *clientcmdapi.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func configA(t *testing.T) string {
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["dev"] = &clientcmdapi.Cluster{Server: "https://dev.example:6443"}
	cfg.AuthInfos["dev-admin"] = &clientcmdapi.AuthInfo{Token: "dev-token"}
	cfg.Contexts["dev"] = &clientcmdapi.Context{Cluster: "dev", AuthInfo: "dev-admin"}
	cfg.CurrentContext = "dev"
	return writeConfig(t, "a.yaml", cfg)
}

func configB(t *testing.T) string {
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["prod"] = &clientcmdapi.Cluster{Server: "https://prod.example:6443"}
	cfg.AuthInfos["prod-admin"] = &clientcmdapi.AuthInfo{Token: "prod-token"}
	cfg.Contexts["prod"] = &clientcmdapi.Context{Cluster: "prod", AuthInfo: "prod-admin"}
	cfg.CurrentContext = "prod"
	return writeConfig(t, "b.yaml", cfg)
}

// configADev2 redefines the "dev" cluster with a different server, colliding
// with configA.
func configADev2(t *testing.T) string {
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["dev"] = &clientcmdapi.Cluster{Server: "https://dev2.example:6443"}
	cfg.AuthInfos["dev-admin"] = &clientcmdapi.AuthInfo{Token: "dev2-token"}
	cfg.Contexts["dev"] = &clientcmdapi.Context{Cluster: "dev", AuthInfo: "dev-admin"}
	return writeConfig(t, "a2.yaml", cfg)
}

func TestMergeDistinctSources(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.yaml")

	res, err := Merge(MergeOptions{
		Sources: []string{configA(t), configB(t)},
		Output:  out,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dev", "prod"}, res.Clusters)
	assert.Equal(t, []string{"dev", "prod"}, res.Contexts)
	assert.Equal(t, []string{"dev-admin", "prod-admin"}, res.Users)
	assert.Empty(t, res.Skipped)
	// First source's current-context wins.
	assert.Equal(t, "dev", res.CurrentContext)

	merged, err := clientcmd.LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example:6443", merged.Clusters["dev"].Server)
	assert.Equal(t, "https://prod.example:6443", merged.Clusters["prod"].Server)
	assert.Equal(t, "dev", merged.CurrentContext)
}

func TestMergeCollisionFirstWins(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.yaml")

	res, err := Merge(MergeOptions{
		Sources: []string{configA(t), configADev2(t)},
		Output:  out,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"clusters/dev", "contexts/dev", "users/dev-admin"}, res.Skipped)

	merged, err := clientcmd.LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example:6443", merged.Clusters["dev"].Server)
	assert.Equal(t, "dev-token", merged.AuthInfos["dev-admin"].Token)
}

func TestMergeCollisionForce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.yaml")

	res, err := Merge(MergeOptions{
		Sources: []string{configA(t), configADev2(t)},
		Output:  out,
		Force:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	merged, err := clientcmd.LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, "https://dev2.example:6443", merged.Clusters["dev"].Server)
	assert.Equal(t, "dev2-token", merged.AuthInfos["dev-admin"].Token)
}

func TestMergeSetCurrentContext(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.yaml")

	res, err := Merge(MergeOptions{
		Sources:        []string{configA(t), configB(t)},
		Output:         out,
		CurrentContext: "prod",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod", res.CurrentContext)

	merged, err := clientcmd.LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, "prod", merged.CurrentContext)
}

func TestMergeUnknownCurrentContext(t *testing.T) {
	_, err := Merge(MergeOptions{
		Sources:        []string{configA(t)},
		Output:         filepath.Join(t.TempDir(), "merged.yaml"),
		CurrentContext: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, kerrors.ErrCodeNotFound, kerrors.CodeOf(err))
}

func TestMergeMissingSource(t *testing.T) {
	_, err := Merge(MergeOptions{
		Sources: []string{filepath.Join(t.TempDir(), "missing.yaml")},
		Output:  filepath.Join(t.TempDir(), "merged.yaml"),
	})
	require.Error(t, err)
}

func TestMergeOutputMode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.yaml")

	_, err := Merge(MergeOptions{
		Sources: []string{configA(t)},
		Output:  out,
	})
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())
}

func TestMergeValidation(t *testing.T) {
	_, err := Merge(MergeOptions{Output: "x"})
	require.Error(t, err)
	assert.Equal(t, kerrors.ErrCodeInvalidRequest, kerrors.CodeOf(err))

	_, err = Merge(MergeOptions{Sources: []string{"a"}})
	require.Error(t, err)
	assert.Equal(t, kerrors.ErrCodeInvalidRequest, kerrors.CodeOf(err))
}
