package config

import "time"

// Env key constants. All configuration env vars use the GUARDRAIL_ prefix;
// duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "GUARDRAIL_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "GUARDRAIL_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "GUARDRAIL_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "GUARDRAIL_LOG_FORMAT"

// Port for health endpoints and the /v1 API.
const envKeyHTTPPort = "GUARDRAIL_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "GUARDRAIL_METRICS_PORT"

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "GUARDRAIL_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Sustained /v1 requests per second and the burst above it.
const (
	envKeyRateLimit      = "GUARDRAIL_RATE_LIMIT"
	envKeyRateLimitBurst = "GUARDRAIL_RATE_LIMIT_BURST"
)

// Run the in-cluster audit: true or false.
const envKeyAuditEnabled = "GUARDRAIL_AUDIT_ENABLED"

// 5-field cron expression for audit runs.
const envKeyAuditSchedule = "GUARDRAIL_AUDIT_SCHEDULE"

// IANA timezone the audit schedule is evaluated in.
const envKeyAuditTZ = "GUARDRAIL_AUDIT_TZ"

// Label selector for audited Deployments.
const envKeyAuditLabelSelector = "GUARDRAIL_AUDIT_LABEL_SELECTOR"

// Parallel annotation patches per audit run.
const (
	envKeyAuditConcurrency = "GUARDRAIL_AUDIT_CONCURRENCY"
	envMinAuditConcurrency = 1
	envMaxAuditConcurrency = 32
)

// Standard k8s env keys used as fallback when GUARDRAIL_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)

const (
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultHTTPPort         = "8080"
	defaultMetricsPort      = "9090"
	defaultPingerInterval   = "10s"
	defaultRateLimit        = "50"
	defaultRateLimitBurst   = "100"
	defaultAuditEnabled     = "true"
	defaultAuditSchedule    = "*/5 * * * *"
	defaultAuditTZ          = "UTC"
	defaultAuditSelector    = "guardrail.k8s.skillcoder.com/enabled=true"
	defaultAuditConcurrency = "4"
)
