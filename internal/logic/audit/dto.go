package audit

// Workload is a Deployment as seen by the audit.
type Workload struct {
	Name        string
	Namespace   string
	Annotations map[string]string
	Containers  []Container
	// Autoscaling is set when an HPA targets the workload.
	Autoscaling *Autoscaling
}

// Container holds the fields of a container that guardrails apply to.
// Limits are Kubernetes quantity strings, empty when unset.
type Container struct {
	Name        string
	Image       string
	CPULimit    string
	MemoryLimit string
}

// Autoscaling is the replica range of the HPA targeting a workload.
type Autoscaling struct {
	MinReplicas int32
	MaxReplicas int32
}

// Finding is the audit outcome for one workload.
type Finding struct {
	Namespace string
	Name      string
	// Violation is nil for a compliant workload.
	Violation error
}

// Report summarizes one audit run.
type Report struct {
	Workloads   int
	Violations  int
	Patched     int
	PatchErrors int
	Findings    []Finding
}
