package guardrail

import "slices"

// Validate runs the guardrails over in and assembles the normalized config.
// Order is fixed: CPU limit, memory limit, image, autoscaling. The first
// failure is returned as-is and no config is produced.
//
// Validate is pure and safe for concurrent use.
func Validate(in Input) (DeploymentConfig, error) {
	cpu, err := ParseCPU(FieldCPU, in.CPU)
	if err != nil {
		return DeploymentConfig{}, err
	}

	if err := CheckLimit(FieldCPU, cpu); err != nil {
		return DeploymentConfig{}, err
	}

	memory, err := ParseMemory(FieldMemory, in.Memory)
	if err != nil {
		return DeploymentConfig{}, err
	}

	if err := CheckLimit(FieldMemory, memory); err != nil {
		return DeploymentConfig{}, err
	}

	image, err := ValidateImage(in.ImageRepository, in.ImageTag)
	if err != nil {
		return DeploymentConfig{}, err
	}

	autoscaling, err := CheckAutoscaling(in.Autoscaling)
	if err != nil {
		return DeploymentConfig{}, err
	}

	return DeploymentConfig{
		Image: image,
		Resources: Resources{
			ResourceLimits: ResourceLimits{
				CPU:    cpu,
				Memory: memory,
			},
			Requests: ResourceRequests{
				CPU:    Request(cpu),
				Memory: Request(memory),
			},
		},
		Autoscaling:     autoscaling,
		ContainerPort:   in.ContainerPort,
		HealthCheckPath: in.HealthCheckPath,
		Env:             slices.Clone(in.Env),
	}, nil
}
