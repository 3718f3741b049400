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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/util/httpstream"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"

	"github.com/clusterkit/kubeops/pkg/defaults"
)

// Config describes a single port-forward target.
type Config struct {
	// PodName and Namespace identify the target pod.
	PodName   string
	Namespace string

	// LocalPort is the listening port on loopback. Zero picks an
	// ephemeral port, readable from Port after start.
	LocalPort int

	// RemotePort is the pod port to forward to.
	RemotePort int

	// ReadyTimeout bounds how long Start waits for the tunnel.
	// Zero uses the project default.
	ReadyTimeout time.Duration

	// Out and ErrOut receive the forwarder's progress output.
	// Nil discards.
	Out    io.Writer
	ErrOut io.Writer
}

// Session is a supervised port-forward tunnel to a single pod. It owns the
// background forwarding goroutine for its whole lifetime: Start brings the
// tunnel up and Stop tears it down; there is no detached state to track
// out of band.
type Session struct {
	id     string
	config Config
	dialer Dialer

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	errCh   chan error
	local   uint16

	stopOnce sync.Once
}

// Dialer establishes the streaming connection for a session. It matches
// the httpstream dialer that client-go's forwarder consumes, so tests can
// substitute fakes.
type Dialer = httpstream.Dialer

// NewSession creates a session that will connect through the given dialer.
// Most callers use NewPodSession to build the dialer from cluster access.
func NewSession(dialer Dialer, config Config) *Session {
	if config.Out == nil {
		config.Out = io.Discard
	}
	if config.ErrOut == nil {
		config.ErrOut = io.Discard
	}
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = defaults.ForwardReadyTimeout
	}
	return &Session{
		id:     uuid.New().String(),
		config: config,
		dialer: dialer,
		stopCh: make(chan struct{}),
		errCh:  make(chan error, 1),
	}
}

// NewPodSession creates a session dialing the pod's portforward subresource
// over SPDY.
func NewPodSession(clientset kubernetes.Interface, restConfig *rest.Config, config Config) (*Session, error) {
	transport, upgrader, err := spdy.RoundTripperFor(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create SPDY round tripper: %w", err)
	}

	req := clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(config.Namespace).
		Name(config.PodName).
		SubResource("portforward")

	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, req.URL())
	return NewSession(dialer, config), nil
}

// ID returns the session's unique identifier, used in logs and diagnostics.
func (s *Session) ID() string { return s.id }

// Start brings up the tunnel and blocks until it is ready, fails, or the
// context or ready timeout expires. The forwarding goroutine keeps running
// until Stop.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session %s already started", s.id)
	}
	s.started = true
	s.mu.Unlock()

	ports := []string{fmt.Sprintf("%d:%d", s.config.LocalPort, s.config.RemotePort)}
	readyCh := make(chan struct{})

	fw, err := portforward.New(s.dialer, ports, s.stopCh, readyCh, s.config.Out, s.config.ErrOut)
	if err != nil {
		return fmt.Errorf("failed to create port forwarder: %w", err)
	}

	go func() {
		s.errCh <- fw.ForwardPorts()
	}()

	select {
	case err := <-s.errCh:
		if err == nil {
			err = fmt.Errorf("forwarder exited before becoming ready")
		}
		return fmt.Errorf("port forward to %s/%s failed: %w",
			s.config.Namespace, s.config.PodName, err)
	case <-ctx.Done():
		s.Stop()
		return fmt.Errorf("port forward canceled: %w", ctx.Err())
	case <-time.After(s.config.ReadyTimeout):
		s.Stop()
		return fmt.Errorf("port forward to %s/%s not ready after %s",
			s.config.Namespace, s.config.PodName, s.config.ReadyTimeout)
	case <-readyCh:
	}

	forwarded, err := fw.GetPorts()
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to read forwarded ports: %w", err)
	}
	if len(forwarded) == 0 {
		s.Stop()
		return fmt.Errorf("no ports forwarded")
	}

	s.mu.Lock()
	s.local = forwarded[0].Local
	s.mu.Unlock()

	slog.Debug("port forward ready",
		"session", s.id,
		"pod", s.config.Namespace+"/"+s.config.PodName,
		"local", s.local,
		"remote", s.config.RemotePort)
	return nil
}

// Port returns the local listening port. Valid after a successful Start.
func (s *Session) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.local)
}

// Addr returns the loopback address of the tunnel, e.g. "127.0.0.1:54321".
func (s *Session) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.Port())
}

// Stop tears the tunnel down and waits briefly for the forwarding goroutine
// to exit. Safe to call multiple times and before Start.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			return
		}

		select {
		case <-s.errCh:
		case <-time.After(defaults.ForwardStopTimeout):
			slog.Warn("port forward did not stop in time", "session", s.id)
		}
	})
}
