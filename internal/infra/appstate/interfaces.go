package appstate

import (
	"time"

	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
)

type pingerServer interface {
	Register(p pinger.Pinger) error
	GetAllStats() map[string]pinger.Statistics
}

type statsGetter interface {
	GetAllStats() map[string]pinger.Statistics
}

type healthChecker interface {
	statsGetter
	IsHealthy() bool
}

type readyChecker interface {
	statsGetter
	IsReady() bool
}

type statusGetter interface {
	statsGetter
	GetState() State
	GetUptime() time.Duration
	GetStartTime() time.Time
}
