package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skillcoder/guardrail-controller/internal/infra/metrics"
	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

// Options configures the audit service.
type Options struct {
	Schedule      string
	TZ            string
	LabelSelector string
	Concurrency   int
}

type Service struct {
	logger        *slog.Logger
	repo          Repository
	scheduler     Scheduler
	schedule      string
	tz            string
	labelSelector string
	concurrency   int
	period        time.Duration
	ready         chan struct{}
	doneCh        chan struct{}
	started       atomic.Bool
	inShutdown    atomic.Bool
	mu            sync.RWMutex
	startedAt     time.Time
	lastAuditEnd  time.Time
}

// New creates a new audit service. The schedule is parsed once up front so a
// bad expression fails at startup rather than in the loop.
func New(
	logger *slog.Logger,
	repo Repository,
	scheduler Scheduler,
	opts Options,
) (*Service, error) {
	period, err := schedulePeriod(scheduler, opts.Schedule, opts.TZ, time.Now())
	if err != nil {
		return nil, err
	}

	labelSelector := opts.LabelSelector
	if labelSelector == "" {
		labelSelector = GuardrailWorkloadLabelSelector
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Service{
		logger:        logger,
		repo:          repo,
		scheduler:     scheduler,
		schedule:      opts.Schedule,
		tz:            opts.TZ,
		labelSelector: labelSelector,
		concurrency:   concurrency,
		period:        period,
		ready:         make(chan struct{}),
		doneCh:        make(chan struct{}),
	}, nil
}

// schedulePeriod returns the gap between the next two occurrences.
func schedulePeriod(scheduler Scheduler, spec, tz string, now time.Time) (time.Duration, error) {
	first, err := scheduler.NextAfter(spec, tz, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	second, err := scheduler.NextAfter(spec, tz, first)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	if !second.After(first) {
		return 0, fmt.Errorf("%w: %q never advances", ErrInvalidSchedule, spec)
	}

	return second.Sub(first), nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "audit service is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.RunCommand(ctx)

	return nil
}

// Name returns the name of the audit component
func (s *Service) Name() string {
	return "audit-controller"
}

func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		lastAudit, ok := s.getLastAuditEnd()
		if !ok {
			age := time.Since(s.startedAt)
			if age > staleAuditFactor*s.period {
				return fmt.Errorf("no audit has succeeded since start %s ago", age.Round(time.Second).String())
			}

			return nil
		}

		age := time.Since(lastAudit)
		if age > staleAuditFactor*s.period {
			return fmt.Errorf("last audit was too long ago: %s", age.Round(time.Second).String())
		}

		return nil
	default:
		return fmt.Errorf("audit service is not ready")
	}
}

// PingerReadyCritical reports that a stale audit must not take the API out of rotation.
func (s *Service) PingerReadyCritical() bool {
	return false
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "audit service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "audit service shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down audit service")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before audit loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "audit loop exited")
	}

	return nil
}

// RunCommand audits immediately and then on every schedule tick until ctx is done.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("audit", "RunCommand")

	s.startedAt = time.Now()
	close(s.ready)

	for {
		_, err := s.AuditCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "audit error", "reason", err)
		} else {
			s.setLastAuditEnd(time.Now())
		}

		next, err := s.scheduler.NextAfter(s.schedule, s.tz, time.Now())
		if err != nil {
			// Validated in New; only reachable if the parser changes under us.
			logger.ErrorContext(ctx, "compute next audit time", "reason", err)

			next = time.Now().Add(s.period)
		}

		logger.DebugContext(ctx, "next audit scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.InfoContext(ctx, "terminating audit loop")

			return
		}
	}
}

// AuditCommand runs one audit pass: evaluate every selected workload and
// bring its violation annotation in line with the result.
func (s *Service) AuditCommand(ctx context.Context) (Report, error) {
	logger := s.logger.With("audit", "AuditCommand")

	workloads, err := s.repo.ListWorkloadsQuery(ctx, s.labelSelector)
	if err != nil {
		metrics.RecordAuditRun(metrics.ResultError)

		return Report{}, fmt.Errorf("%w: %w", ErrListWorkloads, err)
	}

	logger.DebugContext(ctx, "starting to audit workloads", "count", len(workloads))

	report := Report{
		Workloads: len(workloads),
		Findings:  make([]Finding, 0, len(workloads)),
	}
	counts := make(map[metrics.AuditViolationKey]int)

	var (
		patched     atomic.Int64
		patchErrors atomic.Int64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i := range workloads {
		w := workloads[i]
		violation := Evaluate(w)

		report.Findings = append(report.Findings, Finding{
			Namespace: w.Namespace,
			Name:      w.Name,
			Violation: violation,
		})

		if violation != nil {
			report.Violations++
			counts[metrics.AuditViolationKey{Namespace: w.Namespace, Reason: guardrail.Reason(violation)}]++

			logger.InfoContext(ctx, "workload violates guardrails",
				"workload", w.Name,
				"namespace", w.Namespace,
				"reason", violation,
			)
		}

		want := annotationValue(violation)
		if w.Annotations[GuardrailAnnotationViolationKey] == want {
			continue
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			ok, err := s.setViolationCommand(groupCtx, logger, w, want)
			if err != nil {
				patchErrors.Add(1)
				logger.ErrorContext(groupCtx, "set violation annotation error",
					"workload", w.Name,
					"namespace", w.Namespace,
					"reason", err,
				)

				return nil
			}

			if ok {
				patched.Add(1)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		metrics.RecordAuditRun(metrics.ResultError)

		return Report{}, fmt.Errorf("audit interrupted: %w", err)
	}

	report.Patched = int(patched.Load())
	report.PatchErrors = int(patchErrors.Load())

	metrics.SetAuditViolations(counts)
	metrics.RecordAuditRun(metrics.ResultSuccess)

	logger.InfoContext(ctx, "workloads audited",
		"count", report.Workloads,
		"violations", report.Violations,
		"patched", report.Patched,
		"patchErrors", report.PatchErrors,
	)

	return report, nil
}

func (s *Service) setViolationCommand(
	ctx context.Context,
	logger *slog.Logger,
	w Workload,
	value string,
) (bool, error) {
	err := s.repo.SetAnnotationCommand(ctx, w.Namespace, w.Name, GuardrailAnnotationViolationKey, value)
	if err != nil {
		var target notFound
		if errors.As(err, &target) {
			logger.DebugContext(ctx, "workload not found when annotating",
				"workload", w.Name,
				"namespace", w.Namespace,
			)

			return false, nil
		}

		return false, fmt.Errorf("%w: %w", ErrSetAnnotation, err)
	}

	return true, nil
}

func annotationValue(violation error) string {
	if violation == nil {
		return ""
	}

	return violation.Error()
}

func (s *Service) getLastAuditEnd() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastAuditEnd, !s.lastAuditEnd.IsZero()
}

func (s *Service) setLastAuditEnd(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAuditEnd = t
}
