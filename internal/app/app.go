package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/skillcoder/guardrail-controller/internal/adapters/outbound/k8s"
	"github.com/skillcoder/guardrail-controller/internal/config"
	"github.com/skillcoder/guardrail-controller/internal/httpserver"
	"github.com/skillcoder/guardrail-controller/internal/infra/cronparser"
	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
	"github.com/skillcoder/guardrail-controller/internal/logic/audit"
	"github.com/skillcoder/guardrail-controller/internal/logic/chart"
)

const startupTimeout = 30 * time.Second

var errTerminationRequested = errors.New("termination requested before start")

type App struct {
	logger     *slog.Logger
	appState   appstater
	components []component
}

// New wires the service. Components are started in the returned order and
// shut down in reverse; the pinger service comes last so its first round
// sees every other component already serving.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers *pinger.Service,
) (*App, error) {
	engine := chart.New(logger)

	metricsServer := httpserver.NewMetricsServer(logger, cfg.MetricsPort)
	apiServer := httpserver.New(logger, appState, engine, httpserver.Options{
		Port:           cfg.HTTPPort,
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	components := []component{metricsServer, apiServer}
	pinged := []pinger.Pinger{engine, metricsServer, apiServer}

	if cfg.AuditEnabled {
		auditService, err := newAuditService(logger, cfg)
		if err != nil {
			return nil, err
		}

		components = append(components, auditService)
		pinged = append(pinged, auditService)
	} else {
		logger.Info("in-cluster audit disabled")
	}

	for _, p := range pinged {
		if err := appState.RegisterPinger(p); err != nil {
			return nil, fmt.Errorf("register pinger: %w", err)
		}
	}

	return &App{
		logger:     logger,
		appState:   appState,
		components: append(components, pingers),
	}, nil
}

func newAuditService(logger *slog.Logger, cfg *config.Config) (*audit.Service, error) {
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	auditService, err := audit.New(
		logger,
		k8s.New(logger, clientset),
		cronparser.New(),
		audit.Options{
			Schedule:      cfg.AuditSchedule,
			TZ:            cfg.AuditTZ,
			LabelSelector: cfg.AuditLabelSelector,
			Concurrency:   cfg.AuditConcurrency,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create audit service: %w", err)
	}

	return auditService, nil
}

// Run starts every component, marks the application running and blocks
// until a termination signal or ctx is done, then shuts down gracefully.
func (a *App) Run(originCtx context.Context) error {
	if a.appState.TerminationRequested(originCtx) {
		return errTerminationRequested
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	startErr := a.start(ctx)
	if startErr == nil {
		if err := a.appState.SetRunning(ctx); err != nil {
			startErr = fmt.Errorf("set running: %w", err)
		}
	}

	if startErr == nil {
		a.logger.InfoContext(ctx, "guardrail controller running")

		select {
		case sig := <-a.appState.Quit():
			a.logger.InfoContext(ctx, "received termination signal", "signal", sig)
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "context done, terminating")
		}
	}

	// Loops stop on ctx; servers drain inside Shutdown.
	cancel()

	shutdownErr := a.appState.Shutdown(context.WithoutCancel(originCtx))

	return errors.Join(startErr, shutdownErr)
}

// start starts the components in order, registering each for shutdown once
// it started, and waits until all report ready.
func (a *App) start(ctx context.Context) error {
	readies := make([]<-chan struct{}, 0, len(a.components))

	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}

		if err := a.appState.RegisterShutdowner(c); err != nil {
			return fmt.Errorf("register shutdowner %s: %w", c.Name(), err)
		}

		readies = append(readies, c.Ready())
	}

	waitCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	<-allChannelsClose(waitCtx, a.logger, readies...)

	if err := waitCtx.Err(); err != nil {
		return fmt.Errorf("wait for components to become ready: %w", err)
	}

	return nil
}

// allChannelsClose returns a channel closed once every input channel is
// closed or ctx is done.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	var wg sync.WaitGroup

	for _, ch := range chans {
		wg.Go(func() {
			select {
			case <-ch:
			case <-ctx.Done():
			}
		})
	}

	go func() {
		wg.Wait()

		if ctx.Err() != nil {
			logger.WarnContext(ctx, "stopped waiting for channels", "reason", ctx.Err())
		}

		close(out)
	}()

	return out
}
