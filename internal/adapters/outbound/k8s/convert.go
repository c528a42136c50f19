package k8s

import (
	"context"
	"log/slog"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/guardrail-controller/internal/logic/audit"
)

const deploymentKind = "Deployment"

type objectKey struct {
	namespace string
	name      string
}

// indexAutoscalers maps each HPA to the Deployment it targets. When two HPAs
// target the same Deployment the first one listed wins.
func indexAutoscalers(
	ctx context.Context,
	logger *slog.Logger,
	hpas []autoscalingv2.HorizontalPodAutoscaler,
) map[objectKey]*audit.Autoscaling {
	out := make(map[objectKey]*audit.Autoscaling, len(hpas))

	for i := range hpas {
		hpa := &hpas[i]
		if hpa.Spec.ScaleTargetRef.Kind != deploymentKind {
			continue
		}

		key := objectKey{namespace: hpa.Namespace, name: hpa.Spec.ScaleTargetRef.Name}
		if _, ok := out[key]; ok {
			logger.WarnContext(ctx, "deployment has more than one autoscaler, ignoring extra",
				"hpa", hpa.Name,
				"namespace", hpa.Namespace,
				"deployment", key.name,
			)

			continue
		}

		minReplicas := int32(audit.DefaultHPAMinReplicas)
		if hpa.Spec.MinReplicas != nil {
			minReplicas = *hpa.Spec.MinReplicas
		}

		out[key] = &audit.Autoscaling{
			MinReplicas: minReplicas,
			MaxReplicas: hpa.Spec.MaxReplicas,
		}
	}

	return out
}

func toDomainWorkload(d *appsv1.Deployment, scaler *audit.Autoscaling) audit.Workload {
	out := audit.Workload{
		Name:        d.Name,
		Namespace:   d.Namespace,
		Annotations: d.Annotations,
		Containers:  make([]audit.Container, 0, len(d.Spec.Template.Spec.Containers)),
		Autoscaling: scaler,
	}

	for i := range d.Spec.Template.Spec.Containers {
		out.Containers = append(out.Containers, toDomainContainer(&d.Spec.Template.Spec.Containers[i]))
	}

	return out
}

// toDomainContainer reads limits in their canonical string form; an unset
// limit stays empty so the guardrails report it as missing.
func toDomainContainer(c *corev1.Container) audit.Container {
	out := audit.Container{
		Name:  c.Name,
		Image: c.Image,
	}

	if limit, ok := c.Resources.Limits[corev1.ResourceCPU]; ok {
		out.CPULimit = limit.String()
	}

	if limit, ok := c.Resources.Limits[corev1.ResourceMemory]; ok {
		out.MemoryLimit = limit.String()
	}

	return out
}
