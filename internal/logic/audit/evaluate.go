package audit

import (
	"fmt"

	"github.com/distribution/reference"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

// Evaluate applies the guardrails to every container of w and returns the
// first failure, prefixed with the container name, or nil.
func Evaluate(w Workload) error {
	if len(w.Containers) == 0 {
		return &guardrail.MissingFieldError{Field: "containers"}
	}

	for _, c := range w.Containers {
		in, err := containerInput(c, w.Autoscaling)
		if err != nil {
			return fmt.Errorf("container %s: %w", c.Name, err)
		}

		if _, err := guardrail.Validate(in); err != nil {
			return fmt.Errorf("container %s: %w", c.Name, err)
		}
	}

	return nil
}

func containerInput(c Container, autoscaling *Autoscaling) (guardrail.Input, error) {
	repository, tag, err := splitImage(c.Image)
	if err != nil {
		return guardrail.Input{}, err
	}

	in := guardrail.Input{
		ImageRepository: repository,
		ImageTag:        tag,
		CPU:             c.CPULimit,
		Memory:          c.MemoryLimit,
	}

	if autoscaling != nil {
		minReplicas := autoscaling.MinReplicas
		maxReplicas := autoscaling.MaxReplicas

		in.Autoscaling = guardrail.AutoscalingInput{
			Enabled:     true,
			MinReplicas: &minReplicas,
			MaxReplicas: &maxReplicas,
		}
	}

	return in, nil
}

// splitImage splits a container image into its familiar repository name and
// tag. A digest-only reference counts as pinned and its digest is used as the tag.
func splitImage(image string) (string, string, error) {
	if image == "" {
		return "", "", &guardrail.MissingFieldError{Field: guardrail.FieldImageRepository}
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return "", "", &guardrail.ParseError{Field: "image", Value: image, Reason: err.Error()}
	}

	repository := reference.FamiliarName(named)

	if tagged, ok := named.(reference.Tagged); ok {
		return repository, tagged.Tag(), nil
	}

	if digested, ok := named.(reference.Digested); ok {
		return repository, digested.Digest().String(), nil
	}

	return repository, "", nil
}
