package guardrail

import (
	"strconv"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Class is the kind of amount a quantity measures.
type Class string

const (
	ClassCPU      Class = "cpu"
	ClassMemory   Class = "memory"
	ClassReplicas Class = "replicas"
	ClassPort     Class = "port"
)

func (c Class) baseSuffix() string {
	switch c {
	case ClassCPU:
		return "m"
	case ClassMemory:
		return "Mi"
	default:
		return ""
	}
}

// Unit is the notation a quantity was written in.
type Unit string

const (
	UnitMilliCPU  Unit = "millicpu"
	UnitCore      Unit = "core"
	UnitMebibytes Unit = "Mi"
	UnitGibibytes Unit = "Gi"
)

// Quantity is a CPU or memory amount. Value is normalized to millicores for
// CPU and to mebibytes for memory; Unit remembers the input notation.
type Quantity struct {
	Class Class
	Unit  Unit
	Value int64
}

// String renders the quantity in its own unit notation.
func (q Quantity) String() string {
	switch q.Unit {
	case UnitMilliCPU:
		return strconv.FormatInt(q.Value, 10) + "m"
	case UnitCore:
		return strconv.FormatFloat(float64(q.Value)/milliPerCore, 'f', -1, 64)
	case UnitGibibytes:
		return strconv.FormatInt(q.Value/mebiPerGibi, 10) + "Gi"
	case UnitMebibytes:
		return strconv.FormatInt(q.Value, 10) + "Mi"
	default:
		return strconv.FormatInt(q.Value, 10)
	}
}

// MarshalText renders the quantity the way it is written in chart values.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Kube converts the quantity into a Kubernetes resource quantity.
func (q Quantity) Kube() resource.Quantity {
	if q.Class == ClassMemory {
		return *resource.NewQuantity(q.Value*(1<<20), resource.BinarySI)
	}

	return *resource.NewMilliQuantity(q.Value, resource.DecimalSI)
}

// EnvVar is a container environment variable, passed through untouched.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AutoscalingInput is the user-supplied autoscaling block.
// MinReplicas and MaxReplicas are required only when Enabled.
type AutoscalingInput struct {
	Enabled     bool
	MinReplicas *int32
	MaxReplicas *int32
}

// Input is the raw configuration handed to Validate.
type Input struct {
	ImageRepository string
	ImageTag        string
	CPU             string
	Memory          string
	Autoscaling     AutoscalingInput
	ContainerPort   int32
	HealthCheckPath string
	Env             []EnvVar
}

// ImageReference is a validated repository and tag pair.
type ImageReference struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

// FullReference joins repository and tag with a colon.
func (r ImageReference) FullReference() string {
	return r.Repository + ":" + r.Tag
}

// ResourceLimits holds the user-supplied limits.
type ResourceLimits struct {
	CPU    Quantity `json:"cpu"`
	Memory Quantity `json:"memory"`
}

// ResourceRequests holds requests derived from the limits.
type ResourceRequests struct {
	CPU    Quantity `json:"cpu"`
	Memory Quantity `json:"memory"`
}

// Resources mirrors the chart's resources block: limits at top level, derived requests nested.
type Resources struct {
	ResourceLimits

	Requests ResourceRequests `json:"requests"`
}

// AutoscalingSpec is the validated autoscaling block with the fixed metric targets.
type AutoscalingSpec struct {
	Enabled                 bool  `json:"enabled"`
	MinReplicas             int32 `json:"minReplicas,omitempty"`
	MaxReplicas             int32 `json:"maxReplicas,omitempty"`
	TargetCPUUtilization    int32 `json:"targetCPUUtilization"`
	TargetMemoryUtilization int32 `json:"targetMemoryUtilization"`
}

// DeploymentConfig is the normalized, render-ready configuration.
// It is only ever produced whole by Validate.
type DeploymentConfig struct {
	Image           ImageReference  `json:"image"`
	Resources       Resources       `json:"resources"`
	Autoscaling     AutoscalingSpec `json:"autoscaling"`
	ContainerPort   int32           `json:"containerPort"`
	HealthCheckPath string          `json:"healthCheckPath"`
	Env             []EnvVar        `json:"env,omitempty"`
}

// Input returns the input that reproduces this config; limits are echoed
// and requests are derived again.
func (c DeploymentConfig) Input() Input {
	in := Input{
		ImageRepository: c.Image.Repository,
		ImageTag:        c.Image.Tag,
		CPU:             c.Resources.CPU.String(),
		Memory:          c.Resources.Memory.String(),
		Autoscaling: AutoscalingInput{
			Enabled: c.Autoscaling.Enabled,
		},
		ContainerPort:   c.ContainerPort,
		HealthCheckPath: c.HealthCheckPath,
		Env:             append([]EnvVar(nil), c.Env...),
	}

	if c.Autoscaling.Enabled || c.Autoscaling.MinReplicas != 0 {
		minReplicas := c.Autoscaling.MinReplicas
		in.Autoscaling.MinReplicas = &minReplicas
	}

	if c.Autoscaling.Enabled || c.Autoscaling.MaxReplicas != 0 {
		maxReplicas := c.Autoscaling.MaxReplicas
		in.Autoscaling.MaxReplicas = &maxReplicas
	}

	return in
}
