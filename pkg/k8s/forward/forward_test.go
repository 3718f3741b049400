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

package forward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/httpstream"
)

// failingDialer always refuses the connection, driving the forwarder into
// its error path without a live API server.
type failingDialer struct {
	err error
}

func (d *failingDialer) Dial(_ ...string) (httpstream.Connection, string, error) {
	return nil, "", d.err
}

func testSessionConfig() Config {
	return Config{
		PodName:      "dind-0",
		Namespace:    "ci",
		RemotePort:   DefaultEnginePort,
		ReadyTimeout: 2 * time.Second,
	}
}

func TestSessionHasUniqueID(t *testing.T) {
	dialer := &failingDialer{err: errors.New("refused")}

	a := NewSession(dialer, testSessionConfig())
	b := NewSession(dialer, testSessionConfig())

	_, err := uuid.Parse(a.ID())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSessionStartDialFailure(t *testing.T) {
	s := NewSession(&failingDialer{err: errors.New("connection refused")}, testSessionConfig())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ci/dind-0")
}

func TestSessionDoubleStartRejected(t *testing.T) {
	s := NewSession(&failingDialer{err: errors.New("refused")}, testSessionConfig())

	_ = s.Start(context.Background())
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestSessionStopBeforeStart(t *testing.T) {
	s := NewSession(&failingDialer{err: errors.New("refused")}, testSessionConfig())

	// Must not panic or block.
	s.Stop()
	s.Stop()
}

func TestSessionStartCanceledContext(t *testing.T) {
	cfg := testSessionConfig()
	cfg.ReadyTimeout = time.Minute

	s := NewSession(&blockingDialer{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// blockingDialer stalls long enough for Start to notice its context first.
type blockingDialer struct{}

func (d *blockingDialer) Dial(_ ...string) (httpstream.Connection, string, error) {
	time.Sleep(500 * time.Millisecond)
	return nil, "", errors.New("too late")
}

func TestDockerEnv(t *testing.T) {
	lines := DockerEnv("127.0.0.1:54321")
	require.Len(t, lines, 1)
	assert.Equal(t, "export DOCKER_HOST=tcp://127.0.0.1:54321", lines[0])
}
