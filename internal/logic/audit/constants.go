package audit

const (
	GuardrailWorkloadLabelSelector  = "guardrail.k8s.skillcoder.com/enabled=true"
	GuardrailAnnotationViolationKey = "guardrail.k8s.skillcoder.com/violation"

	// DefaultHPAMinReplicas is what Kubernetes assumes when an HPA omits minReplicas.
	DefaultHPAMinReplicas = 1

	// staleAuditFactor is how many schedule periods may pass before Ping fails.
	staleAuditFactor = 2

	defaultConcurrency = 4
)
