package guardrail

// Field names used in error messages. They follow the chart values layout.
const (
	FieldImage           = "image"
	FieldImageRepository = "image.repository"
	FieldImageTag        = "image.tag"
	FieldCPU             = "resources.cpu"
	FieldMemory          = "resources.memory"
	FieldMinReplicas     = "autoscaling.minReplicas"
	FieldMaxReplicas     = "autoscaling.maxReplicas"
)

const (
	// TargetCPUUtilization is the platform-fixed HPA CPU target, in percent.
	TargetCPUUtilization int32 = 75

	// TargetMemoryUtilization is the platform-fixed HPA memory target, in percent.
	TargetMemoryUtilization int32 = 75

	// ForbiddenImageSubstring may not appear anywhere in an image reference.
	ForbiddenImageSubstring = "latest"
)

// Guardrail ranges, inclusive, in the base unit of each class.
var (
	CPULimitRange    = Range{Min: 100, Max: 4000}
	MemoryLimitRange = Range{Min: 128, Max: 8192}
	MinReplicasRange = Range{Min: 1, Max: 10}
	MaxReplicasRange = Range{Min: 2, Max: 20}
)

const (
	milliPerCore   = 1000
	mebiPerGibi    = 1024
	requestDivisor = 2

	// coreFractionDigits is the number of fractional core digits kept (millicore precision).
	coreFractionDigits = 3
)
