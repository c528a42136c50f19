package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	KubeConfig         string
	KubeMaster         string
	LogLevel           string
	LogFormat          string
	HTTPPort           string
	MetricsPort        string
	PingerInterval     time.Duration
	RateLimit          float64
	RateLimitBurst     int
	AuditEnabled       bool
	AuditSchedule      string
	AuditTZ            string
	AuditLabelSelector string
	AuditConcurrency   int
}

func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig:         getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster:         getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		LogLevel:           getEnvOrDefault(envKeyLogLevel, defaultLogLevel),
		LogFormat:          getEnvOrDefault(envKeyLogFormat, defaultLogFormat),
		HTTPPort:           getEnvOrDefault(envKeyHTTPPort, defaultHTTPPort),
		MetricsPort:        getEnvOrDefault(envKeyMetricsPort, defaultMetricsPort),
		AuditSchedule:      getEnvOrDefault(envKeyAuditSchedule, defaultAuditSchedule),
		AuditTZ:            getEnvOrDefault(envKeyAuditTZ, defaultAuditTZ),
		AuditLabelSelector: getEnvOrDefault(envKeyAuditLabelSelector, defaultAuditSelector),
	}

	var err error

	cfg.PingerInterval, err = parseDuration(envKeyPingerInterval, defaultPingerInterval, envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.RateLimit, err = strconv.ParseFloat(getEnvOrDefault(envKeyRateLimit, defaultRateLimit), 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyRateLimit, err)
	}

	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("%s must be greater than 0, got %v", envKeyRateLimit, cfg.RateLimit)
	}

	cfg.RateLimitBurst, err = parseInt(envKeyRateLimitBurst, defaultRateLimitBurst, 1, 0)
	if err != nil {
		return nil, err
	}

	cfg.AuditEnabled, err = strconv.ParseBool(getEnvOrDefault(envKeyAuditEnabled, defaultAuditEnabled))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyAuditEnabled, err)
	}

	if _, err := time.LoadLocation(cfg.AuditTZ); err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyAuditTZ, err)
	}

	cfg.AuditConcurrency, err = parseInt(
		envKeyAuditConcurrency,
		defaultAuditConcurrency,
		envMinAuditConcurrency,
		envMaxAuditConcurrency,
	)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseDuration reads key as a duration with an explicit unit and rejects
// values below minValue.
func parseDuration(key, defaultValue string, minValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, defaultValue)

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("%s must be at least %s, got %s", key, minValue, d)
	}

	return d, nil
}

// parseInt reads key as an integer in [minValue, maxValue]; maxValue 0 means no upper bound.
func parseInt(key, defaultValue string, minValue, maxValue int) (int, error) {
	n, err := strconv.Atoi(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if n < minValue || (maxValue > 0 && n > maxValue) {
		if maxValue > 0 {
			return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, minValue, maxValue, n)
		}

		return 0, fmt.Errorf("%s must be at least %d, got %d", key, minValue, n)
	}

	return n, nil
}

func getEnvWithFallback(key, fallbackKey string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return os.Getenv(fallbackKey)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
