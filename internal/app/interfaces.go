package app

import (
	"context"
	"os"
	"time"

	"github.com/skillcoder/guardrail-controller/internal/infra/appstate"
	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
	"github.com/skillcoder/guardrail-controller/internal/infra/shutdown"
)

type appstater interface {
	RegisterPinger(p pinger.Pinger) error
	RegisterShutdowner(shutdowner shutdown.Shutdowner) error
	GetAllStats() map[string]pinger.Statistics
	TerminationRequested(ctx context.Context) bool
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	GetStartTime() time.Time
	GetState() appstate.State
	GetUptime() time.Duration
	IsHealthy() bool
	IsReady() bool
	Shutdown(ctx context.Context) error
}

// component is a long-running part of the service.
type component interface {
	Name() string
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}
