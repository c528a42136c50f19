package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/distribution/reference"
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

const (
	LabelName      = "app.kubernetes.io/name"
	LabelInstance  = "app.kubernetes.io/instance"
	LabelManagedBy = "app.kubernetes.io/managed-by"

	managedBy     = "guardrail"
	containerName = "app"
	portName      = "http"
	servicePort   = 80

	probeInitialDelaySeconds = 10
	probePeriodSeconds       = 10
)

var ErrInvalidImage = errors.New("invalid image reference")

// Meta carries the release-level fields that are not part of the guardrail config.
type Meta struct {
	Name         string
	Namespace    string
	ReplicaCount int32
	PullPolicy   corev1.PullPolicy
}

// Manifests is the rendered set of objects for one release. Resources keeps
// the quantities in the notation they were written in; YAML emits them as is.
type Manifests struct {
	Service    *corev1.Service
	Deployment *appsv1.Deployment
	Autoscaler *autoscalingv2.HorizontalPodAutoscaler
	Resources  guardrail.Resources
}

// Build translates a validated config into Kubernetes objects.
func Build(meta Meta, cfg guardrail.DeploymentConfig) (*Manifests, error) {
	image, err := normalizeImage(cfg.Image)
	if err != nil {
		return nil, err
	}

	labels := map[string]string{
		LabelName:      meta.Name,
		LabelInstance:  meta.Name,
		LabelManagedBy: managedBy,
	}
	selector := map[string]string{
		LabelName:     meta.Name,
		LabelInstance: meta.Name,
	}

	out := &Manifests{
		Service:    buildService(meta, labels, selector),
		Deployment: buildDeployment(meta, labels, selector, image, cfg),
		Resources:  cfg.Resources,
	}

	if cfg.Autoscaling.Enabled {
		out.Autoscaler = buildAutoscaler(meta, labels, cfg.Autoscaling)
	}

	return out, nil
}

// YAML serializes the manifests as a multi-document stream in apply order.
// Zero-valued API fields and status are left out.
func YAML(m *Manifests) ([]byte, error) {
	service, err := toManifest(m.Service)
	if err != nil {
		return nil, fmt.Errorf("convert service: %w", err)
	}

	deployment, err := toManifest(m.Deployment)
	if err != nil {
		return nil, fmt.Errorf("convert deployment: %w", err)
	}

	if err := setContainerResources(deployment, m.Resources); err != nil {
		return nil, err
	}

	docs := []map[string]any{service, deployment}

	if m.Autoscaler != nil {
		autoscaler, err := toManifest(m.Autoscaler)
		if err != nil {
			return nil, fmt.Errorf("convert autoscaler: %w", err)
		}

		docs = append(docs, autoscaler)
	}

	var buf bytes.Buffer

	for i, doc := range docs {
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest %d: %w", i, err)
		}

		buf.WriteString("---\n")
		buf.Write(out)
	}

	return buf.Bytes(), nil
}

func toManifest(obj any) (map[string]any, error) {
	doc, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, err
	}

	delete(doc, "status")
	prune(doc)

	return doc, nil
}

// prune drops nulls and empty objects, recursing into lists.
func prune(obj map[string]any) {
	for key, value := range obj {
		switch v := value.(type) {
		case nil:
			delete(obj, key)
		case map[string]any:
			prune(v)

			if len(v) == 0 {
				delete(obj, key)
			}
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					prune(m)
				}
			}
		}
	}
}

// setContainerResources replaces the canonicalized quantities of the app
// container with the limit and request strings of the validated config.
func setContainerResources(deployment map[string]any, res guardrail.Resources) error {
	path := []string{"spec", "template", "spec", "containers"}

	containers, found, err := unstructured.NestedSlice(deployment, path...)
	if err != nil {
		return fmt.Errorf("read containers: %w", err)
	}

	if !found || len(containers) == 0 {
		return errors.New("deployment has no containers")
	}

	container, ok := containers[0].(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected container type %T", containers[0])
	}

	container["resources"] = map[string]any{
		"limits": map[string]any{
			string(corev1.ResourceCPU):    res.CPU.String(),
			string(corev1.ResourceMemory): res.Memory.String(),
		},
		"requests": map[string]any{
			string(corev1.ResourceCPU):    res.Requests.CPU.String(),
			string(corev1.ResourceMemory): res.Requests.Memory.String(),
		},
	}

	if err := unstructured.SetNestedSlice(deployment, containers, path...); err != nil {
		return fmt.Errorf("write containers: %w", err)
	}

	return nil
}

func normalizeImage(ref guardrail.ImageReference) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref.FullReference())
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidImage, ref.FullReference(), err)
	}

	if _, ok := named.(reference.Tagged); !ok {
		return "", fmt.Errorf("%w: %q has no tag", ErrInvalidImage, ref.FullReference())
	}

	return named.String(), nil
}

func objectMeta(meta Meta, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      meta.Name,
		Namespace: meta.Namespace,
		Labels:    labels,
	}
}

func buildService(meta Meta, labels, selector map[string]string) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: objectMeta(meta, labels),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: selector,
			Ports: []corev1.ServicePort{
				{
					Name:       portName,
					Port:       servicePort,
					TargetPort: intstr.FromString(portName),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

func buildDeployment(
	meta Meta,
	labels,
	selector map[string]string,
	image string,
	cfg guardrail.DeploymentConfig,
) *appsv1.Deployment {
	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: cfg.HealthCheckPath,
				Port: intstr.FromString(portName),
			},
		},
		InitialDelaySeconds: probeInitialDelaySeconds,
		PeriodSeconds:       probePeriodSeconds,
	}

	env := make([]corev1.EnvVar, 0, len(cfg.Env))
	for _, e := range cfg.Env {
		env = append(env, corev1.EnvVar{Name: e.Name, Value: e.Value})
	}

	container := corev1.Container{
		Name:            containerName,
		Image:           image,
		ImagePullPolicy: meta.PullPolicy,
		Ports: []corev1.ContainerPort{
			{Name: portName, ContainerPort: cfg.ContainerPort, Protocol: corev1.ProtocolTCP},
		},
		Env: env,
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    cfg.Resources.CPU.Kube(),
				corev1.ResourceMemory: cfg.Resources.Memory.Kube(),
			},
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    cfg.Resources.Requests.CPU.Kube(),
				corev1.ResourceMemory: cfg.Resources.Requests.Memory.Kube(),
			},
		},
		LivenessProbe:  probe,
		ReadinessProbe: probe.DeepCopy(),
	}

	deployment := &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: objectMeta(meta, labels),
		Spec: appsv1.DeploymentSpec{
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
		},
	}

	// The HPA owns the replica count when autoscaling is on.
	if !cfg.Autoscaling.Enabled {
		replicas := meta.ReplicaCount
		deployment.Spec.Replicas = &replicas
	}

	return deployment
}

func buildAutoscaler(
	meta Meta,
	labels map[string]string,
	spec guardrail.AutoscalingSpec,
) *autoscalingv2.HorizontalPodAutoscaler {
	minReplicas := spec.MinReplicas
	cpuTarget := spec.TargetCPUUtilization
	memoryTarget := spec.TargetMemoryUtilization

	return &autoscalingv2.HorizontalPodAutoscaler{
		TypeMeta:   metav1.TypeMeta{APIVersion: "autoscaling/v2", Kind: "HorizontalPodAutoscaler"},
		ObjectMeta: objectMeta(meta, labels),
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       meta.Name,
			},
			MinReplicas: &minReplicas,
			MaxReplicas: spec.MaxReplicas,
			Metrics: []autoscalingv2.MetricSpec{
				utilizationMetric(corev1.ResourceCPU, cpuTarget),
				utilizationMetric(corev1.ResourceMemory, memoryTarget),
			},
		},
	}
}

func utilizationMetric(name corev1.ResourceName, target int32) autoscalingv2.MetricSpec {
	return autoscalingv2.MetricSpec{
		Type: autoscalingv2.ResourceMetricSourceType,
		Resource: &autoscalingv2.ResourceMetricSource{
			Name: name,
			Target: autoscalingv2.MetricTarget{
				Type:               autoscalingv2.UtilizationMetricType,
				AverageUtilization: &target,
			},
		},
	}
}
