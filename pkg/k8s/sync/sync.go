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

package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"

	"github.com/clusterkit/kubeops/pkg/errors"
)

// Config describes one sync of local files into a running pod.
type Config struct {
	// PodName and Namespace identify the target pod.
	PodName   string
	Namespace string

	// Container selects the container to receive the files. Empty uses the
	// pod's default container.
	Container string

	// Source is the local file or directory to copy. Directories are copied
	// recursively; the directory's contents land directly in TargetDir.
	Source string

	// TargetDir is the destination directory inside the container. It must
	// already exist.
	TargetDir string
}

func (c Config) validate() error {
	if c.PodName == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "pod name is required")
	}
	if c.Source == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "source path is required")
	}
	if c.TargetDir == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "target directory is required")
	}
	return nil
}

// executorFactory builds the streaming executor for an exec URL. Tests
// substitute a fake to avoid a live API server.
type executorFactory func(config *rest.Config, method string, u *url.URL) (remotecommand.Executor, error)

// Syncer copies local files into pod containers by streaming a tar archive
// through an exec session.
type Syncer struct {
	restConfig *rest.Config
	newExec    executorFactory
}

// New creates a Syncer bound to the given cluster access.
func New(restConfig *rest.Config) *Syncer {
	return &Syncer{
		restConfig: restConfig,
		newExec:    remotecommand.NewSPDYExecutor,
	}
}

// execRequestURL builds the pod exec URL from a REST client derived from
// the injected config, the same construction kubectl's exec path uses.
func (s *Syncer) execRequestURL(cfg Config, cmd []string) (*url.URL, error) {
	config := rest.CopyConfig(s.restConfig)
	config.APIPath = "/api"
	config.GroupVersion = &corev1.SchemeGroupVersion
	config.NegotiatedSerializer = scheme.Codecs.WithoutConversion()

	restClient, err := rest.RESTClientFor(config)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build REST client", err)
	}

	return restClient.Post().
		Resource("pods").
		Namespace(cfg.Namespace).
		Name(cfg.PodName).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: cfg.Container,
			Command:   cmd,
			Stdin:     true,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec).URL(), nil
}

// Sync copies cfg.Source into cfg.TargetDir of the target container. The
// archive is streamed, so the source never needs to fit in memory.
func (s *Syncer) Sync(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}

	cmd := []string{"tar", "-xmf", "-", "-C", cfg.TargetDir}

	reqURL, err := s.execRequestURL(cfg, cmd)
	if err != nil {
		return err
	}

	exec, err := s.newExec(s.restConfig, http.MethodPost, reqURL)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create exec session", err)
	}

	reader, writer := io.Pipe()
	go func() {
		writer.CloseWithError(writeTar(cfg.Source, writer))
	}()

	var stdout, stderr bytes.Buffer
	err = exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  reader,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to sync %s into %s/%s:%s",
			cfg.Source, cfg.Namespace, cfg.PodName, cfg.TargetDir)
		if out := strings.TrimSpace(stderr.String()); out != "" {
			msg = fmt.Sprintf("%s: %s", msg, out)
		}
		return errors.Wrap(errors.ErrCodeTransport, msg, err)
	}

	slog.Debug("sync complete",
		"source", cfg.Source,
		"pod", cfg.Namespace+"/"+cfg.PodName,
		"target", cfg.TargetDir)
	return nil
}
