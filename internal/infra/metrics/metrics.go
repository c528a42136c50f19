package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultSuccess  = "success"
	ResultError    = "error"
)

var validationsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "guardrail_validations_total",
		Help: "Total number of chart values validations by source, result and rejection reason.",
	},
	[]string{"source", "result", "reason"},
)

var auditRunsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "guardrail_audit_runs_total",
		Help: "Total number of in-cluster audit runs by result.",
	},
	[]string{"result"},
)

var auditViolations = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "guardrail_audit_violations",
		Help: "Workloads violating guardrails as of the last audit run, by namespace and reason.",
	},
	[]string{"namespace", "reason"},
)

var rateLimitRejectsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "guardrail_rate_limit_rejects_total",
		Help: "Total number of API requests rejected by the rate limiter.",
	},
)

var componentPingsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "guardrail_component_pings_total",
		Help: "Total number of component health pings by component and result.",
	},
	[]string{"component", "result"},
)

var componentPingDuration = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "guardrail_component_ping_duration_seconds",
		Help:    "Latency of component health pings.",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1},
	},
	[]string{"component"},
)

// RecordValidation counts one validation. reason is empty for accepted values.
func RecordValidation(source, result, reason string) {
	validationsTotal.WithLabelValues(source, result, reason).Inc()
}

// RecordAuditRun counts one audit run.
func RecordAuditRun(result string) {
	auditRunsTotal.WithLabelValues(result).Inc()
}

// AuditViolationKey identifies one series of the audit violations gauge.
type AuditViolationKey struct {
	Namespace string
	Reason    string
}

// SetAuditViolations replaces the audit violations gauge with counts.
func SetAuditViolations(counts map[AuditViolationKey]int) {
	auditViolations.Reset()

	for key, count := range counts {
		auditViolations.WithLabelValues(key.Namespace, key.Reason).Set(float64(count))
	}
}

// RecordRateLimitReject counts one request rejected by the rate limiter.
func RecordRateLimitReject() {
	rateLimitRejectsTotal.Inc()
}

// RecordPing counts one component ping and observes its latency.
func RecordPing(component, result string, seconds float64) {
	componentPingsTotal.WithLabelValues(component, result).Inc()
	componentPingDuration.WithLabelValues(component).Observe(seconds)
}
