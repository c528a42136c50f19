package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/guardrail-controller/internal/logic/audit"
	"github.com/skillcoder/guardrail-controller/internal/logic/audit/mocks"
)

// testNotFoundError implements the audit's private not-found interface.
type testNotFoundError struct{}

func (testNotFoundError) Error() string { return "not found" }
func (testNotFoundError) IsNotFound()   {}

// everyScheduler fires at a fixed interval.
type everyScheduler struct {
	every time.Duration
	err   error
}

func (s everyScheduler) NextAfter(_, _ string, after time.Time) (time.Time, error) {
	if s.err != nil {
		return time.Time{}, s.err
	}

	return after.Add(s.every), nil
}

func newService(t *testing.T, repo audit.Repository) *audit.Service {
	t.Helper()

	svc, err := audit.New(slog.Default(), repo, everyScheduler{every: time.Hour}, audit.Options{
		Schedule:      "@hourly",
		LabelSelector: "label",
		Concurrency:   2,
	})
	require.NoError(t, err)

	return svc
}

func compliantWorkload(name string) audit.Workload {
	return audit.Workload{
		Name:      name,
		Namespace: "default",
		Containers: []audit.Container{
			{Name: "app", Image: "nginx:1.25.3", CPULimit: "500m", MemoryLimit: "512Mi"},
		},
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := audit.New(slog.Default(), mocks.NewMockRepository(t), everyScheduler{err: errors.New("bad")}, audit.Options{
		Schedule: "nope",
	})
	require.ErrorIs(t, err, audit.ErrInvalidSchedule)

	_, err = audit.New(slog.Default(), mocks.NewMockRepository(t), everyScheduler{every: 0}, audit.Options{
		Schedule: "frozen",
	})
	require.ErrorIs(t, err, audit.ErrInvalidSchedule)
}

func TestService_AuditCommand(t *testing.T) {
	t.Parallel()

	t.Run("list error returns error", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return(nil, context.DeadlineExceeded).
			Once()

		_, err := svc.AuditCommand(t.Context())
		require.ErrorIs(t, err, audit.ErrListWorkloads)
	})

	t.Run("compliant workload is left alone", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return([]audit.Workload{compliantWorkload("web")}, nil).
			Once()

		report, err := svc.AuditCommand(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, report.Workloads)
		require.Zero(t, report.Violations)
		require.Zero(t, report.Patched)
	})

	t.Run("violating workload is annotated", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		w := compliantWorkload("web")
		w.Containers[0].Image = "nginx:latest"

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return([]audit.Workload{w}, nil).
			Once()
		repo.EXPECT().
			SetAnnotationCommand(
				mock.Anything,
				"default",
				"web",
				audit.GuardrailAnnotationViolationKey,
				`container app: image.tag "latest" must not contain "latest", pin an explicit version`,
			).
			Return(nil).
			Once()

		report, err := svc.AuditCommand(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, report.Violations)
		require.Equal(t, 1, report.Patched)
		require.Len(t, report.Findings, 1)
		require.Error(t, report.Findings[0].Violation)
	})

	t.Run("fixed workload has annotation removed", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		w := compliantWorkload("web")
		w.Annotations = map[string]string{audit.GuardrailAnnotationViolationKey: "old violation"}

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return([]audit.Workload{w}, nil).
			Once()
		repo.EXPECT().
			SetAnnotationCommand(mock.Anything, "default", "web", audit.GuardrailAnnotationViolationKey, "").
			Return(nil).
			Once()

		report, err := svc.AuditCommand(t.Context())
		require.NoError(t, err)
		require.Zero(t, report.Violations)
		require.Equal(t, 1, report.Patched)
	})

	t.Run("unchanged violation is not patched again", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		w := compliantWorkload("web")
		w.Containers[0].CPULimit = ""
		w.Annotations = map[string]string{
			audit.GuardrailAnnotationViolationKey: "container app: resources.cpu is required",
		}

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return([]audit.Workload{w}, nil).
			Once()

		report, err := svc.AuditCommand(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, report.Violations)
		require.Zero(t, report.Patched)
	})

	t.Run("not found and failed patches do not fail the run", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		svc := newService(t, repo)

		gone := compliantWorkload("gone")
		gone.Containers[0].MemoryLimit = "1G"

		broken := compliantWorkload("broken")
		broken.Containers[0].MemoryLimit = "9Gi"

		repo.EXPECT().
			ListWorkloadsQuery(mock.Anything, "label").
			Return([]audit.Workload{gone, broken}, nil).
			Once()
		repo.EXPECT().
			SetAnnotationCommand(mock.Anything, "default", "gone", audit.GuardrailAnnotationViolationKey, mock.Anything).
			Return(testNotFoundError{}).
			Once()
		repo.EXPECT().
			SetAnnotationCommand(mock.Anything, "default", "broken", audit.GuardrailAnnotationViolationKey, mock.Anything).
			Return(errors.New("conflict")).
			Once()

		report, err := svc.AuditCommand(t.Context())
		require.NoError(t, err)
		require.Equal(t, 2, report.Violations)
		require.Zero(t, report.Patched)
		require.Equal(t, 1, report.PatchErrors)
	})
}

func TestService_Start_Ready_Shutdown(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockRepository(t)
	svc := newService(t, repo)

	repo.EXPECT().
		ListWorkloadsQuery(mock.Anything, mock.Anything).
		Return([]audit.Workload{}, nil).
		Maybe()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	require.Equal(t, "audit-controller", svc.Name())
	require.Error(t, svc.Ping(t.Context()))
	require.NoError(t, svc.Start(ctx))

	select {
	case <-svc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("service did not become ready")
	}

	require.Eventually(t, func() bool {
		return svc.Ping(t.Context()) == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	require.NoError(t, svc.Shutdown(shutdownCtx))
	// second shutdown is a no-op
	require.NoError(t, svc.Shutdown(shutdownCtx))
}
