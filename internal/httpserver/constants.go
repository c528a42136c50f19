package httpserver

import "time"

const (
	defaultPort        = "8080"
	defaultMetricsPort = "9090"

	readTimeout       = 5 * time.Second
	readHeaderTimeout = 3 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 12 // 4kb

	// maxBodyBytes caps /v1 request bodies.
	maxBodyBytes = 1 << 20

	defaultRateLimit      = 50
	defaultRateLimitBurst = 100

	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)
