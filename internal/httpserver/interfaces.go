package httpserver

import (
	"context"
	"time"

	"github.com/skillcoder/guardrail-controller/internal/infra/appstate"
	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
	"github.com/skillcoder/guardrail-controller/internal/logic/chart"
	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]pinger.Statistics
}

type chartEngine interface {
	ValidateQuery(ctx context.Context, source string, v chart.Values) (guardrail.DeploymentConfig, error)
	RenderQuery(ctx context.Context, source string, v chart.Values) ([]byte, error)
}
