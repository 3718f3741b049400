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

package poller

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NamespaceFunc resolves the caller's default namespace, typically from the
// active kubeconfig context.
type NamespaceFunc func() (string, error)

// KubeClient implements ClusterClient over a Kubernetes clientset.
type KubeClient struct {
	clientset kubernetes.Interface
	namespace NamespaceFunc
}

// NewKubeClient creates a cluster client backed by the given clientset.
// nsFn resolves the default namespace when a policy leaves it unset; nil
// falls back to "default".
func NewKubeClient(clientset kubernetes.Interface, nsFn NamespaceFunc) *KubeClient {
	if nsFn == nil {
		nsFn = func() (string, error) { return metav1.NamespaceDefault, nil }
	}
	return &KubeClient{
		clientset: clientset,
		namespace: nsFn,
	}
}

// ListPods returns refs for all pods in the namespace, in API listing order.
func (c *KubeClient) ListPods(ctx context.Context, namespace string) ([]PodRef, error) {
	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %s: %w", namespace, err)
	}

	refs := make([]PodRef, 0, len(list.Items))
	for _, pod := range list.Items {
		refs = append(refs, PodRef{Name: pod.Name, Namespace: pod.Namespace})
	}
	return refs, nil
}

// GetPodPhase fetches the pod and derives its lifecycle phase.
func (c *KubeClient) GetPodPhase(ctx context.Context, ref PodRef) (Phase, error) {
	pod, err := c.clientset.CoreV1().Pods(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return PhaseUnknown, fmt.Errorf("failed to get pod %s: %w", ref.String(), err)
	}
	return derivePhase(pod), nil
}

// DeletePod removes the pod with default grace.
func (c *KubeClient) DeletePod(ctx context.Context, ref PodRef) error {
	err := c.clientset.CoreV1().Pods(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete pod %s: %w", ref.String(), err)
	}
	return nil
}

// CurrentNamespace resolves the caller's default namespace.
func (c *KubeClient) CurrentNamespace() (string, error) {
	return c.namespace()
}

// errorReasons are container states that indicate a pod is wedged even though
// the API-level phase is still Pending or Running.
var errorReasons = map[string]bool{
	"Error":                true,
	"CrashLoopBackOff":     true,
	"ImagePullBackOff":     true,
	"ErrImagePull":         true,
	"CreateContainerError": true,
	"OOMKilled":            true,
}

// derivePhase maps a pod's status to the poller's phase enumeration. The API
// phase enum has no Terminating or Error members, so both are synthesized:
// Terminating from the deletion timestamp, Error from container reasons.
func derivePhase(pod *corev1.Pod) Phase {
	if pod.DeletionTimestamp != nil {
		return PhaseTerminating
	}

	switch pod.Status.Phase {
	case corev1.PodSucceeded:
		return PhaseSucceeded
	case corev1.PodFailed:
		return PhaseFailed
	case corev1.PodRunning, corev1.PodPending:
		if hasErrorContainer(pod.Status.ContainerStatuses) {
			return PhaseError
		}
		if pod.Status.Phase == corev1.PodRunning {
			return PhaseRunning
		}
		return PhasePending
	default:
		return PhaseUnknown
	}
}

func hasErrorContainer(statuses []corev1.ContainerStatus) bool {
	for _, cs := range statuses {
		if cs.State.Waiting != nil && errorReasons[cs.State.Waiting.Reason] {
			return true
		}
		if cs.State.Terminated != nil && errorReasons[cs.State.Terminated.Reason] {
			return true
		}
	}
	return false
}
