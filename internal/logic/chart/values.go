package chart

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

const (
	DefaultName            = "app"
	DefaultNamespace       = "default"
	DefaultImageRepository = "nginx"
	DefaultImageTag        = "1.25.3"
	DefaultPullPolicy      = "IfNotPresent"
	DefaultContainerPort   = 8080
	DefaultHealthCheckPath = "/health"
	DefaultCPU             = "500m"
	DefaultMemory          = "512Mi"
	DefaultReplicaCount    = 1
	DefaultMinReplicas     = 2
	DefaultMaxReplicas     = 5
)

// Values mirrors the chart's values.yaml.
type Values struct {
	NameOverride    string             `json:"nameOverride,omitempty"`
	Namespace       string             `json:"namespace,omitempty"`
	ReplicaCount    int32              `json:"replicaCount"`
	Image           ImageValues        `json:"image"`
	ContainerPort   int32              `json:"containerPort"`
	HealthCheckPath string             `json:"healthCheckPath"`
	Env             []guardrail.EnvVar `json:"env,omitempty"`
	Resources       ResourceValues     `json:"resources"`
	Autoscaling     AutoscalingValues  `json:"autoscaling"`
}

type ImageValues struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
	PullPolicy string `json:"pullPolicy,omitempty"`
}

type ResourceValues struct {
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

type AutoscalingValues struct {
	Enabled     bool   `json:"enabled"`
	MinReplicas *int32 `json:"minReplicas,omitempty"`
	MaxReplicas *int32 `json:"maxReplicas,omitempty"`
}

// DefaultValues returns a fresh copy of the static chart defaults.
func DefaultValues() Values {
	minReplicas := int32(DefaultMinReplicas)
	maxReplicas := int32(DefaultMaxReplicas)

	return Values{
		Namespace:    DefaultNamespace,
		ReplicaCount: DefaultReplicaCount,
		Image: ImageValues{
			Repository: DefaultImageRepository,
			Tag:        DefaultImageTag,
			PullPolicy: DefaultPullPolicy,
		},
		ContainerPort:   DefaultContainerPort,
		HealthCheckPath: DefaultHealthCheckPath,
		Resources: ResourceValues{
			CPU:    DefaultCPU,
			Memory: DefaultMemory,
		},
		Autoscaling: AutoscalingValues{
			Enabled:     false,
			MinReplicas: &minReplicas,
			MaxReplicas: &maxReplicas,
		},
	}
}

// Merge decodes a YAML or JSON document over v. Keys absent from the
// document keep their current value; lists are replaced whole.
func (v *Values) Merge(doc []byte) error {
	if err := yaml.UnmarshalStrict(doc, v); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}

	return nil
}

// Name returns the release name.
func (v Values) Name() string {
	if v.NameOverride != "" {
		return v.NameOverride
	}

	return DefaultName
}

// Input maps the values onto the guardrail input.
func (v Values) Input() guardrail.Input {
	return guardrail.Input{
		ImageRepository: v.Image.Repository,
		ImageTag:        v.Image.Tag,
		CPU:             v.Resources.CPU,
		Memory:          v.Resources.Memory,
		Autoscaling: guardrail.AutoscalingInput{
			Enabled:     v.Autoscaling.Enabled,
			MinReplicas: v.Autoscaling.MinReplicas,
			MaxReplicas: v.Autoscaling.MaxReplicas,
		},
		ContainerPort:   v.ContainerPort,
		HealthCheckPath: v.HealthCheckPath,
		Env:             v.Env,
	}
}
