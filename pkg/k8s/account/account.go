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

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Config describes the service account to manage.
type Config struct {
	// Name of the ServiceAccount.
	Name string
	// Namespace the ServiceAccount lives in.
	Namespace string
	// ClusterRole, when set, is bound to the ServiceAccount through a
	// ClusterRoleBinding named <namespace>-<name>. The role itself must
	// already exist (e.g. the built-in "view" or "edit").
	ClusterRole string
	// Labels applied to created resources.
	Labels map[string]string
}

// Manager creates, tokenizes, and removes service accounts. All ensure
// operations are idempotent.
type Manager struct {
	clientset kubernetes.Interface
	config    Config
}

// NewManager creates a Manager for the given account configuration.
func NewManager(clientset kubernetes.Interface, config Config) *Manager {
	return &Manager{
		clientset: clientset,
		config:    config,
	}
}

// bindingName is the ClusterRoleBinding name derived from the account.
func (m *Manager) bindingName() string {
	return m.config.Namespace + "-" + m.config.Name
}

// Ensure creates the ServiceAccount and, when a ClusterRole is configured,
// the ClusterRoleBinding. Existing resources are left untouched.
func (m *Manager) Ensure(ctx context.Context) error {
	if err := m.ensureServiceAccount(ctx); err != nil {
		return fmt.Errorf("failed to create ServiceAccount: %w", err)
	}
	if m.config.ClusterRole != "" {
		if err := m.ensureClusterRoleBinding(ctx); err != nil {
			return fmt.Errorf("failed to create ClusterRoleBinding: %w", err)
		}
	}
	return nil
}

func (m *Manager) ensureServiceAccount(ctx context.Context) error {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      m.config.Name,
			Namespace: m.config.Namespace,
			Labels:    m.config.Labels,
		},
	}

	_, err := m.clientset.CoreV1().ServiceAccounts(m.config.Namespace).Create(ctx, sa, metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

func (m *Manager) ensureClusterRoleBinding(ctx context.Context) error {
	crb := &rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:   m.bindingName(),
			Labels: m.config.Labels,
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      "ServiceAccount",
				Name:      m.config.Name,
				Namespace: m.config.Namespace,
			},
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: "rbac.authorization.k8s.io",
			Kind:     "ClusterRole",
			Name:     m.config.ClusterRole,
		},
	}

	_, err := m.clientset.RbacV1().ClusterRoleBindings().Create(ctx, crb, metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

// Delete removes the ServiceAccount and its ClusterRoleBinding. Missing
// resources are not an error.
func (m *Manager) Delete(ctx context.Context) error {
	err := m.clientset.CoreV1().ServiceAccounts(m.config.Namespace).
		Delete(ctx, m.config.Name, metav1.DeleteOptions{})
	if err := ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete ServiceAccount: %w", err)
	}

	err = m.clientset.RbacV1().ClusterRoleBindings().
		Delete(ctx, m.bindingName(), metav1.DeleteOptions{})
	if err := ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete ClusterRoleBinding: %w", err)
	}
	return nil
}

// ignoreAlreadyExists returns nil if the error is "already exists", otherwise
// returns the error. Used to make resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if errors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// ignoreNotFound returns nil if the error is "not found", otherwise returns
// the error. Used to make resource deletion idempotent.
func ignoreNotFound(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}
