package appstate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/guardrail-controller/internal/infra/appstate"
	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
	"github.com/skillcoder/guardrail-controller/internal/infra/shutdown/mocks"
)

type staticPinger struct {
	name string
	err  error
}

func (p staticPinger) Name() string                 { return p.name }
func (p staticPinger) Ping(_ context.Context) error { return p.err }

func newAppState(t *testing.T, pingers *pinger.Service) *appstate.AppState {
	t.Helper()

	if pingers == nil {
		pingers = pinger.New(slog.Default(), time.Second)
	}

	quit := make(chan os.Signal, 1)
	terminationFile := filepath.Join(t.TempDir(), "terminating")

	return appstate.New(slog.Default(), time.Now(), terminationFile, quit, pingers)
}

func TestAppState_StateTransitions(t *testing.T) {
	t.Parallel()

	t.Run("init to starting to running to terminating", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newAppState(t, nil)

		require.NoError(t, s.SetStarting(ctx))
		require.Equal(t, appstate.StateStarting, s.GetState())
		require.NoError(t, s.SetRunning(ctx))
		require.Equal(t, appstate.StateRunning, s.GetState())
		require.NoError(t, s.SetTerminating(ctx))
		require.Equal(t, appstate.StateTerminating, s.GetState())
	})

	t.Run("invalid: init to running", func(t *testing.T) {
		t.Parallel()

		s := newAppState(t, nil)

		err := s.SetRunning(t.Context())
		require.ErrorIs(t, err, appstate.ErrInvalidStateTransition)
		require.Equal(t, appstate.StateInit, s.GetState())
	})

	t.Run("invalid: terminated cannot change", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newAppState(t, nil)

		require.NoError(t, s.SetStarting(ctx))
		require.NoError(t, s.Shutdown(ctx))
		require.Equal(t, appstate.StateTerminated, s.GetState())

		require.Error(t, s.SetStarting(ctx))
		require.ErrorIs(t, s.SetTerminating(ctx), appstate.ErrAlreadyTerminated)
		require.Equal(t, appstate.StateTerminated, s.GetState())
	})
}

func TestAppState_QueryMethods(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := newAppState(t, nil)

	require.Equal(t, appstate.StateInit, s.GetState())
	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetStarting(ctx))
	require.True(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetRunning(ctx))
	require.True(t, s.IsHealthy())
	require.True(t, s.IsReady())

	require.NoError(t, s.SetTerminating(ctx))
	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())
}

func TestAppState_ComponentsAffectProbes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	pingers := pinger.New(slog.Default(), time.Hour)
	s := newAppState(t, pingers)

	require.NoError(t, s.RegisterPinger(staticPinger{name: "api"}))
	require.NoError(t, s.RegisterPinger(staticPinger{name: "broken", err: errors.New("down")}))

	require.NoError(t, s.SetStarting(ctx))
	require.NoError(t, s.SetRunning(ctx))
	require.False(t, s.IsReady(), "components that never ran are not ready")

	require.NoError(t, pingers.Start(ctx))
	<-pingers.Ready()

	require.False(t, s.IsReady())
	require.False(t, s.IsHealthy())

	stats := s.GetAllStats()
	require.True(t, stats["api"].IsReady)
	require.Equal(t, "down", stats["broken"].LastError)
}

func TestAppState_GetUptime(t *testing.T) {
	t.Parallel()

	s := newAppState(t, nil)

	time.Sleep(10 * time.Millisecond)

	require.Greater(t, s.GetUptime(), time.Duration(0))
}

func TestAppState_Shutdown(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := newAppState(t, nil)

	first := mocks.NewMockShutdowner(t)
	first.EXPECT().Name().Return("first").Once()
	first.EXPECT().Shutdown(mock.Anything).Return(nil).Once()

	second := mocks.NewMockShutdowner(t)
	second.EXPECT().Name().Return("second").Once()
	second.EXPECT().Shutdown(mock.Anything).Return(errors.New("stuck")).Once()

	require.NoError(t, s.RegisterShutdowner(first))
	require.NoError(t, s.RegisterShutdowner(second))
	require.ErrorIs(t, s.RegisterShutdowner(nil), appstate.ErrNilComponent)

	require.NoError(t, s.SetStarting(ctx))
	require.NoError(t, s.SetRunning(ctx))

	err := s.Shutdown(ctx)
	require.ErrorContains(t, err, "stuck")
	require.Equal(t, appstate.StateTerminated, s.GetState())

	// shutdowners are not run twice
	require.NoError(t, s.Shutdown(ctx))
}

func TestAppState_TerminationRequested(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "terminating")
	s := appstate.New(slog.Default(), time.Now(), path, make(chan os.Signal, 1), pinger.New(slog.Default(), time.Second))

	require.False(t, s.TerminationRequested(t.Context()))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	require.True(t, s.TerminationRequested(t.Context()))
}
