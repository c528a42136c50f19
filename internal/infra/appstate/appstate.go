package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
	"github.com/skillcoder/guardrail-controller/internal/infra/shutdown"
)

// State represents the application state
type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

const defaultShutdownersCount = 8

// AppState tracks the lifecycle state, owns the registered shutdowners and
// combines the lifecycle with component ping results for the probes.
type AppState struct {
	mu                  sync.RWMutex
	logger              *slog.Logger
	startedAt           time.Time
	readyAt             *time.Time
	terminatingAt       *time.Time
	state               State
	quit                <-chan os.Signal
	terminationFilePath string
	pinger              pingerServer
	shutdowners         []shutdown.Shutdowner
}

func New(
	logger *slog.Logger,
	appStart time.Time,
	terminationFilePath string,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:              logger,
		startedAt:           appStart,
		state:               StateInit,
		quit:                quit,
		terminationFilePath: terminationFilePath,
		pinger:              pinger,
		shutdowners:         make([]shutdown.Shutdowner, 0, defaultShutdownersCount),
	}
}

func (s *AppState) RegisterPinger(p pinger.Pinger) error {
	return s.pinger.Register(p)
}

// RegisterShutdowner appends a component; components shut down in reverse order.
func (s *AppState) RegisterShutdowner(shutdowner shutdown.Shutdowner) error {
	if shutdowner == nil {
		return fmt.Errorf("register shutdowner: %w", ErrNilComponent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdowners = append(s.shutdowners, shutdowner)

	return nil
}

func (s *AppState) GetAllStats() map[string]pinger.Statistics {
	return s.pinger.GetAllStats()
}

// TerminationRequested reports whether the termination file is present.
func (s *AppState) TerminationRequested(ctx context.Context) bool {
	return shutdown.CheckTerminationFile(ctx, s.logger, s.terminationFilePath)
}

// SetStarting transitions the state from Init to Starting
func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return fmt.Errorf("set starting from %s: %w", s.state, ErrInvalidStateTransition)
	}

	return s.setState(StateStarting)
}

// SetRunning transitions the state from Starting to Running. If the
// termination file appeared while starting, the process signals itself so
// the normal shutdown path runs.
func (s *AppState) SetRunning(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateStarting {
		state := s.state
		s.mu.Unlock()

		return fmt.Errorf("set running from %s: %w", state, ErrInvalidStateTransition)
	}

	now := time.Now()
	s.readyAt = &now
	err := s.setState(StateRunning)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.TerminationRequested(ctx) {
		pid := os.Getpid()
		s.logger.InfoContext(ctx, "termination file found after initialization, sending SIGTERM", "pid", pid)

		if killErr := syscall.Kill(pid, syscall.SIGTERM); killErr != nil {
			s.logger.ErrorContext(ctx, "failed to send SIGTERM", "reason", killErr, "pid", pid)
		}
	}

	return nil
}

// SetTerminating transitions the state to Terminating
func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminating {
		return nil
	}

	if err := s.setState(StateTerminating); err != nil {
		return fmt.Errorf("set terminating: %w", err)
	}

	now := time.Now()
	s.terminatingAt = &now

	return nil
}

func (s *AppState) setState(newState State) error {
	if s.state == StateTerminated {
		return ErrAlreadyTerminated
	}

	s.logger.Debug("application state changed", "from", s.state, "to", newState)
	s.state = newState

	return nil
}

func (s *AppState) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) GetStartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.startedAt
}

func (s *AppState) GetUptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.startedAt)
}

// IsHealthy is true while starting or running and no health-critical
// component is failing.
func (s *AppState) IsHealthy() bool {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	if state != StateStarting && state != StateRunning {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsHealthy && !stats.LastRun.IsZero() {
			return false
		}
	}

	return true
}

// IsReady is true once running and every ready-critical component passes.
func (s *AppState) IsReady() bool {
	s.mu.RLock()
	ready := s.state == StateRunning && s.readyAt != nil
	s.mu.RUnlock()

	if !ready {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsReady {
			return false
		}
	}

	return true
}

// Quit returns the channel that will receive the signal when shutdown is requested
func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

// Shutdown moves to Terminating, shuts every registered component down and
// ends in Terminated. Calling it again after that is a no-op.
func (s *AppState) Shutdown(ctx context.Context) error {
	if s.GetState() == StateTerminated {
		return nil
	}

	if err := s.SetTerminating(ctx); err != nil {
		return fmt.Errorf("set terminating application state: %w", err)
	}

	s.mu.RLock()
	shutdowners := append([]shutdown.Shutdowner(nil), s.shutdowners...)
	s.mu.RUnlock()

	shutdownErr := shutdown.GracefulShutdown(ctx, s.logger, shutdowners)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}

	return nil
}
