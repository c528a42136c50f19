package guardrail

// CheckAutoscaling validates the replica bounds of an enabled autoscaling
// block. Checks run in order and the first failure wins: minReplicas range,
// maxReplicas range, then max > min. A disabled block is passed through.
func CheckAutoscaling(in AutoscalingInput) (AutoscalingSpec, error) {
	spec := AutoscalingSpec{
		Enabled:                 in.Enabled,
		TargetCPUUtilization:    TargetCPUUtilization,
		TargetMemoryUtilization: TargetMemoryUtilization,
	}

	if !in.Enabled {
		if in.MinReplicas != nil {
			spec.MinReplicas = *in.MinReplicas
		}

		if in.MaxReplicas != nil {
			spec.MaxReplicas = *in.MaxReplicas
		}

		return spec, nil
	}

	if in.MinReplicas == nil {
		return AutoscalingSpec{}, &MissingFieldError{Field: FieldMinReplicas}
	}

	if in.MaxReplicas == nil {
		return AutoscalingSpec{}, &MissingFieldError{Field: FieldMaxReplicas}
	}

	minReplicas, maxReplicas := *in.MinReplicas, *in.MaxReplicas

	if err := checkRange(FieldMinReplicas, ClassReplicas, int64(minReplicas), MinReplicasRange); err != nil {
		return AutoscalingSpec{}, err
	}

	if err := checkRange(FieldMaxReplicas, ClassReplicas, int64(maxReplicas), MaxReplicasRange); err != nil {
		return AutoscalingSpec{}, err
	}

	if maxReplicas <= minReplicas {
		return AutoscalingSpec{}, &OrderingViolation{MinReplicas: minReplicas, MaxReplicas: maxReplicas}
	}

	spec.MinReplicas = minReplicas
	spec.MaxReplicas = maxReplicas

	return spec, nil
}
