package chart

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/guardrail-controller/internal/infra/metrics"
	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
	"github.com/skillcoder/guardrail-controller/internal/logic/render"
)

// Validation sources, used as a metrics label.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// Service validates chart values and renders them into manifests.
type Service struct {
	logger *slog.Logger
}

// New creates a new chart service.
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Name returns the name of the pinger component.
func (s *Service) Name() string {
	return "guardrail-engine"
}

// Ping validates the built-in defaults; a failure means the engine itself is broken.
func (s *Service) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := validate(DefaultValues()); err != nil {
		return fmt.Errorf("default values rejected: %w", err)
	}

	return nil
}

// ValidateQuery runs the guardrails over v. Guardrail errors are returned
// unwrapped so their message can be shown to the user verbatim.
func (s *Service) ValidateQuery(
	ctx context.Context,
	source string,
	v Values,
) (guardrail.DeploymentConfig, error) {
	logger := s.logger.With("service", "ValidateQuery", "source", source, "release", v.Name())

	cfg, err := validate(v)
	if err != nil {
		reason := guardrail.Reason(err)
		metrics.RecordValidation(source, metrics.ResultRejected, reason)

		logger.InfoContext(ctx, "values rejected",
			"field", guardrail.FieldOf(err),
			"kind", reason,
			"reason", err,
		)

		return guardrail.DeploymentConfig{}, err
	}

	metrics.RecordValidation(source, metrics.ResultAccepted, "")

	logger.DebugContext(ctx, "values accepted",
		"image", cfg.Image.FullReference(),
		"cpuRequest", cfg.Resources.Requests.CPU.String(),
		"memoryRequest", cfg.Resources.Requests.Memory.String(),
		"autoscaling", cfg.Autoscaling.Enabled,
	)

	return cfg, nil
}

// RenderQuery validates v and renders the release manifests as YAML.
func (s *Service) RenderQuery(
	ctx context.Context,
	source string,
	v Values,
) ([]byte, error) {
	cfg, err := s.ValidateQuery(ctx, source, v)
	if err != nil {
		return nil, err
	}

	manifests, err := render.Build(render.Meta{
		Name:         v.Name(),
		Namespace:    v.Namespace,
		ReplicaCount: v.ReplicaCount,
		PullPolicy:   corev1.PullPolicy(v.Image.PullPolicy),
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("build manifests: %w", err)
	}

	out, err := render.YAML(manifests)
	if err != nil {
		return nil, fmt.Errorf("serialize manifests: %w", err)
	}

	return out, nil
}

func validate(v Values) (guardrail.DeploymentConfig, error) {
	cfg, err := guardrail.Validate(v.Input())
	if err != nil {
		return guardrail.DeploymentConfig{}, err
	}

	if err := checkReleaseFields(v); err != nil {
		return guardrail.DeploymentConfig{}, err
	}

	return cfg, nil
}
