package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/skillcoder/guardrail-controller/internal/logic/audit"
)

type adapter struct {
	logger    *slog.Logger
	clientset kubernetes.Interface
}

// New creates a new K8s adapter.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
) audit.Repository {
	return &adapter{
		logger:    logger,
		clientset: clientset,
	}
}

var _ audit.Repository = (*adapter)(nil)

// ListWorkloadsQuery lists the selected Deployments in all namespaces and
// attaches the HPA that scales each of them, if any.
func (a *adapter) ListWorkloadsQuery(
	ctx context.Context,
	labelSelector string,
) ([]audit.Workload, error) {
	deployments, err := a.clientset.AppsV1().Deployments("").List(
		ctx,
		metav1.ListOptions{
			LabelSelector: labelSelector,
		},
	)
	if err != nil {
		if apierrors.IsTooManyRequests(err) {
			return nil, fmt.Errorf("list deployments: %w", errTooManyRequests)
		}

		return nil, fmt.Errorf("list deployments: %w", err)
	}

	if len(deployments.Items) == 0 {
		return []audit.Workload{}, nil
	}

	hpas, err := a.clientset.AutoscalingV2().HorizontalPodAutoscalers("").List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list horizontal pod autoscalers: %w", err)
	}

	scalers := indexAutoscalers(ctx, a.logger, hpas.Items)

	workloads := make([]audit.Workload, 0, len(deployments.Items))
	for i := range deployments.Items {
		d := &deployments.Items[i]
		workloads = append(workloads, toDomainWorkload(d, scalers[objectKey{namespace: d.Namespace, name: d.Name}]))
	}

	return workloads, nil
}

// SetAnnotationCommand merge-patches one annotation on a Deployment. An empty
// value removes the key.
func (a *adapter) SetAnnotationCommand(
	ctx context.Context,
	namespace,
	name string,
	key,
	value string,
) error {
	annotations := map[string]any{key: value}
	if value == "" {
		annotations[key] = nil
	}

	patch := map[string]any{
		"metadata": map[string]any{
			"annotations": annotations,
		},
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal annotation patch: %w", err)
	}

	_, err = a.clientset.AppsV1().Deployments(namespace).Patch(
		ctx,
		name,
		types.MergePatchType,
		patchBytes,
		metav1.PatchOptions{},
	)
	if err != nil {
		switch {
		case apierrors.IsNotFound(err):
			return fmt.Errorf("patch deployment annotation: %w", errWorkloadNotFound)
		case apierrors.IsTooManyRequests(err):
			return fmt.Errorf("patch deployment annotation: %w", errTooManyRequests)
		}

		return fmt.Errorf("patch deployment annotation: %w", err)
	}

	return nil
}
