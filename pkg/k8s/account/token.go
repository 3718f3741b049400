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

package account

import (
	"context"
	"fmt"
	"time"

	authenticationv1 "k8s.io/api/authentication/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/clusterkit/kubeops/pkg/defaults"
)

// TokenInfo is a minted bearer token for a service account.
type TokenInfo struct {
	Account   string    `json:"account" yaml:"account"`
	Namespace string    `json:"namespace" yaml:"namespace"`
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`
}

// Token mints a bearer token for the ServiceAccount via the TokenRequest
// API. A non-positive expiration uses the project default; values below the
// API server's floor are raised to it.
func (m *Manager) Token(ctx context.Context, expiration time.Duration) (*TokenInfo, error) {
	if expiration <= 0 {
		expiration = defaults.TokenExpiration
	}
	if expiration < defaults.TokenMinExpiration {
		expiration = defaults.TokenMinExpiration
	}

	req := &authenticationv1.TokenRequest{
		Spec: authenticationv1.TokenRequestSpec{
			ExpirationSeconds: ptr.To(int64(expiration / time.Second)),
		},
	}

	resp, err := m.clientset.CoreV1().ServiceAccounts(m.config.Namespace).
		CreateToken(ctx, m.config.Name, req, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create token for %s/%s: %w",
			m.config.Namespace, m.config.Name, err)
	}

	return &TokenInfo{
		Account:   m.config.Name,
		Namespace: m.config.Namespace,
		Token:     resp.Status.Token,
		ExpiresAt: resp.Status.ExpirationTimestamp.Time,
	}, nil
}
