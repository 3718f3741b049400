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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authenticationv1 "k8s.io/api/authentication/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

const (
	testName      = "automation"
	testNamespace = "ops"
)

func testConfig() Config {
	return Config{
		Name:        testName,
		Namespace:   testNamespace,
		ClusterRole: "view",
		Labels:      map[string]string{"app.kubernetes.io/managed-by": "kubeops"},
	}
}

func TestEnsureCreatesResources(t *testing.T) {
	clientset := fake.NewClientset()
	m := NewManager(clientset, testConfig())
	ctx := context.Background()

	require.NoError(t, m.Ensure(ctx))

	sa, err := clientset.CoreV1().ServiceAccounts(testNamespace).Get(ctx, testName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "kubeops", sa.Labels["app.kubernetes.io/managed-by"])

	crb, err := clientset.RbacV1().ClusterRoleBindings().Get(ctx, testNamespace+"-"+testName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "view", crb.RoleRef.Name)
	require.Len(t, crb.Subjects, 1)
	assert.Equal(t, testName, crb.Subjects[0].Name)
	assert.Equal(t, testNamespace, crb.Subjects[0].Namespace)
}

func TestEnsureIsIdempotent(t *testing.T) {
	clientset := fake.NewClientset()
	m := NewManager(clientset, testConfig())
	ctx := context.Background()

	require.NoError(t, m.Ensure(ctx))
	require.NoError(t, m.Ensure(ctx))
}

func TestEnsureWithoutClusterRole(t *testing.T) {
	clientset := fake.NewClientset()
	cfg := testConfig()
	cfg.ClusterRole = ""
	m := NewManager(clientset, cfg)
	ctx := context.Background()

	require.NoError(t, m.Ensure(ctx))

	bindings, err := clientset.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, bindings.Items)
}

func TestDeleteRemovesResources(t *testing.T) {
	clientset := fake.NewClientset()
	m := NewManager(clientset, testConfig())
	ctx := context.Background()

	require.NoError(t, m.Ensure(ctx))
	require.NoError(t, m.Delete(ctx))

	_, err := clientset.CoreV1().ServiceAccounts(testNamespace).Get(ctx, testName, metav1.GetOptions{})
	assert.Error(t, err)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	m := NewManager(fake.NewClientset(), testConfig())
	assert.NoError(t, m.Delete(context.Background()))
}

func TestToken(t *testing.T) {
	clientset := fake.NewClientset()
	expiry := metav1.NewTime(time.Now().Add(time.Hour).Truncate(time.Second))

	var requestedSeconds int64
	clientset.PrependReactor("create", "serviceaccounts",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			create, ok := action.(k8stesting.CreateAction)
			if !ok || action.GetSubresource() != "token" {
				return false, nil, nil
			}
			req := create.GetObject().(*authenticationv1.TokenRequest)
			if req.Spec.ExpirationSeconds != nil {
				requestedSeconds = *req.Spec.ExpirationSeconds
			}
			return true, &authenticationv1.TokenRequest{
				Status: authenticationv1.TokenRequestStatus{
					Token:               "header.payload.signature",
					ExpirationTimestamp: expiry,
				},
			}, nil
		})

	m := NewManager(clientset, testConfig())

	t.Run("explicit expiration", func(t *testing.T) {
		info, err := m.Token(context.Background(), 2*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "header.payload.signature", info.Token)
		assert.Equal(t, testName, info.Account)
		assert.Equal(t, testNamespace, info.Namespace)
		assert.Equal(t, expiry.Time, info.ExpiresAt)
		assert.Equal(t, int64(7200), requestedSeconds)
	})

	t.Run("zero uses default", func(t *testing.T) {
		_, err := m.Token(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3600), requestedSeconds)
	})

	t.Run("below floor is raised", func(t *testing.T) {
		_, err := m.Token(context.Background(), time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(600), requestedSeconds)
	})
}

func TestTokenFailure(t *testing.T) {
	clientset := fake.NewClientset()
	clientset.PrependReactor("create", "serviceaccounts",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			if action.GetSubresource() != "token" {
				return false, nil, nil
			}
			return true, nil, assert.AnError
		})

	m := NewManager(clientset, testConfig())
	_, err := m.Token(context.Background(), time.Hour)
	assert.Error(t, err)
}
