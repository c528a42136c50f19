package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/guardrail-controller/internal/infra/metrics"
)

const defaultPingTimeout = time.Second

type entry struct {
	pinger  Pinger
	tracker *tracker
}

// Service pings registered components at a fixed interval and keeps their
// statistics for the health endpoints.
type Service struct {
	logger     *slog.Logger
	interval   time.Duration
	mu         sync.RWMutex
	entries    map[string]*entry
	ready      chan struct{}
	doneCh     chan struct{}
	started    atomic.Bool
	inShutdown atomic.Bool
	inflight   sync.WaitGroup
}

func New(
	logger *slog.Logger,
	interval time.Duration,
) *Service {
	return &Service{
		logger:   logger,
		interval: interval,
		entries:  make(map[string]*entry),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Name returns the name of the pinger service component
func (s *Service) Name() string {
	return "pinger-service"
}

func (s *Service) Register(p Pinger) error {
	if p == nil {
		return ErrNilPinger
	}

	name := p.Name()

	readyCritical := true
	if rc, ok := p.(readyCriticalPinger); ok {
		readyCritical = rc.PingerReadyCritical()
	}

	healthCritical := true
	if hc, ok := p.(healthCriticalPinger); ok {
		healthCritical = hc.PingerCritical()
	}

	timeout := defaultPingTimeout
	if tp, ok := p.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		timeout = tp.PingerTimeout()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	s.entries[name] = &entry{
		pinger:  p,
		tracker: newTracker(readyCritical, healthCritical, timeout),
	}

	s.logger.Info("pinger registered",
		"name", name,
		"readyCritical", readyCritical,
		"healthCritical", healthCritical,
		"timeout", timeout,
	)

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.run(ctx)

	return nil
}

// Ready is closed once the first round of pings has completed.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	s.logger.InfoContext(ctx, "shutting down pinger service")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
	}

	s.inflight.Wait()

	s.logger.InfoContext(ctx, "pinger service shut down")

	return nil
}

// GetStats returns statistics for a specific pinger
func (s *Service) GetStats(name string) (Statistics, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return Statistics{}, fmt.Errorf("get stats: %w: %s", ErrPingerNotFound, name)
	}

	return e.tracker.snapshot(), nil
}

// GetAllStats returns a snapshot of every registered pinger keyed by name.
func (s *Service) GetAllStats() map[string]Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Statistics, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.tracker.snapshot()
	}

	return out
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("component", "pinger-run")

	s.pingAll(ctx, logger)
	close(s.ready)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if s.inShutdown.Load() {
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}

		select {
		case <-ticker.C:
			s.pingAll(ctx, logger)
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// pingAll pings every registered component in parallel and waits for all of
// them; each ping is bounded by its own timeout.
func (s *Service) pingAll(ctx context.Context, logger *slog.Logger) {
	s.mu.RLock()
	entries := maps.Clone(s.entries)
	s.mu.RUnlock()

	var round sync.WaitGroup

	for name, e := range entries {
		if ctx.Err() != nil {
			break
		}

		s.inflight.Add(1)
		round.Go(func() {
			defer s.inflight.Done()

			s.pingOne(ctx, logger, name, e)
		})
	}

	round.Wait()
}

func (s *Service) pingOne(ctx context.Context, logger *slog.Logger, name string, e *entry) {
	pingCtx, cancel := context.WithTimeout(ctx, e.tracker.timeout)
	defer cancel()

	start := time.Now()
	err := e.pinger.Ping(pingCtx)
	latency := time.Since(start)

	e.tracker.record(start, latency, err)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError

		logger.DebugContext(ctx, "pinger error", "name", name, "latency", latency, "reason", err)
	}

	metrics.RecordPing(name, result, latency.Seconds())
}
