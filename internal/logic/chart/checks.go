package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

const (
	FieldName            = "nameOverride"
	FieldNamespace       = "namespace"
	FieldReplicaCount    = "replicaCount"
	FieldContainerPort   = "containerPort"
	FieldHealthCheckPath = "healthCheckPath"
	FieldPullPolicy      = "image.pullPolicy"
	FieldEnv             = "env"
)

var (
	replicaCountRange  = guardrail.Range{Min: 1, Max: guardrail.MaxReplicasRange.Max}
	containerPortRange = guardrail.Range{Min: 1, Max: math.MaxUint16}
)

// checkReleaseFields validates the fields the guardrail core passes through
// untouched. It runs after the core so core failures keep their order.
func checkReleaseFields(v Values) error {
	if err := checkImageReference(v.Image); err != nil {
		return err
	}

	if errs := validation.IsDNS1123Label(v.Name()); len(errs) > 0 {
		return &guardrail.ParseError{Field: FieldName, Value: v.Name(), Reason: strings.Join(errs, "; ")}
	}

	if errs := validation.IsDNS1123Label(v.Namespace); len(errs) > 0 {
		return &guardrail.ParseError{Field: FieldNamespace, Value: v.Namespace, Reason: strings.Join(errs, "; ")}
	}

	if !v.Autoscaling.Enabled && !replicaCountRange.Contains(int64(v.ReplicaCount)) {
		return &guardrail.GuardrailViolation{
			Field: FieldReplicaCount,
			Class: guardrail.ClassReplicas,
			Value: int64(v.ReplicaCount),
			Min:   replicaCountRange.Min,
			Max:   replicaCountRange.Max,
		}
	}

	if !containerPortRange.Contains(int64(v.ContainerPort)) {
		return &guardrail.GuardrailViolation{
			Field: FieldContainerPort,
			Class: guardrail.ClassPort,
			Value: int64(v.ContainerPort),
			Min:   containerPortRange.Min,
			Max:   containerPortRange.Max,
		}
	}

	if v.HealthCheckPath == "" {
		return &guardrail.MissingFieldError{Field: FieldHealthCheckPath}
	}

	if !strings.HasPrefix(v.HealthCheckPath, "/") {
		return &guardrail.ParseError{Field: FieldHealthCheckPath, Value: v.HealthCheckPath, Reason: "must start with /"}
	}

	switch corev1.PullPolicy(v.Image.PullPolicy) {
	case "", corev1.PullAlways, corev1.PullIfNotPresent, corev1.PullNever:
	default:
		return &guardrail.ParseError{
			Field:  FieldPullPolicy,
			Value:  v.Image.PullPolicy,
			Reason: "must be one of Always, IfNotPresent, Never",
		}
	}

	return checkEnv(v.Env)
}

// checkImageReference requires repository:tag to be a pullable, tagged
// reference. The core only checks presence and the forbidden substring.
func checkImageReference(image ImageValues) error {
	ref := image.Repository + ":" + image.Tag

	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return &guardrail.ParseError{Field: guardrail.FieldImage, Value: ref, Reason: err.Error()}
	}

	if _, ok := named.(reference.NamedTagged); !ok {
		return &guardrail.ParseError{Field: guardrail.FieldImage, Value: ref, Reason: "reference has no tag"}
	}

	return nil
}

func checkEnv(env []guardrail.EnvVar) error {
	seen := make(map[string]struct{}, len(env))

	for i, e := range env {
		field := fmt.Sprintf("%s[%d].name", FieldEnv, i)

		if e.Name == "" {
			return &guardrail.MissingFieldError{Field: field}
		}

		if errs := validation.IsEnvVarName(e.Name); len(errs) > 0 {
			return &guardrail.ParseError{Field: field, Value: e.Name, Reason: strings.Join(errs, "; ")}
		}

		if _, dup := seen[e.Name]; dup {
			return &guardrail.ParseError{Field: field, Value: e.Name, Reason: "duplicate environment variable"}
		}

		seen[e.Name] = struct{}{}
	}

	return nil
}
