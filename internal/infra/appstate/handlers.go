package appstate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/guardrail-controller/internal/infra/pinger"
)

type probeResponse struct {
	Status  string   `json:"status"`
	Failing []string `json:"failing,omitempty"`
}

type statusResponse struct {
	State      string                       `json:"state"`
	Uptime     string                       `json:"uptime"`
	StartTime  time.Time                    `json:"startTime"`
	UptimeSec  float64                      `json:"uptimeSeconds"`
	Components map[string]pinger.Statistics `json:"components"`
}

// HandleHealthz serves the liveness probe.
func HandleHealthz(
	logger *slog.Logger,
	appState healthChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		if !appState.IsHealthy() {
			failing := failingComponents(appState.GetAllStats(), func(s pinger.Statistics) bool {
				return s.IsHealthy || s.LastRun.IsZero()
			})
			writeJSON(w, logger, r, http.StatusServiceUnavailable, probeResponse{Status: "unhealthy", Failing: failing})
			logger.DebugContext(ctx, "health check failed", "failing", failing)

			return
		}

		writeJSON(w, logger, r, http.StatusOK, probeResponse{Status: "ok"})
	}
}

// HandleReadyz serves the readiness probe.
func HandleReadyz(
	logger *slog.Logger,
	appState readyChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		if !appState.IsReady() {
			failing := failingComponents(appState.GetAllStats(), func(s pinger.Statistics) bool {
				return s.IsReady
			})
			writeJSON(w, logger, r, http.StatusServiceUnavailable, probeResponse{Status: "not ready", Failing: failing})
			logger.DebugContext(ctx, "readiness check failed", "failing", failing)

			return
		}

		writeJSON(w, logger, r, http.StatusOK, probeResponse{Status: "ok"})
	}
}

// HandleStatus reports lifecycle state, uptime and per-component ping statistics.
func HandleStatus(
	logger *slog.Logger,
	appState statusGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger.With("traceID", middleware.GetReqID(r.Context()))
		uptime := appState.GetUptime()

		writeJSON(w, logger, r, http.StatusOK, statusResponse{
			State:      string(appState.GetState()),
			Uptime:     uptime.String(),
			StartTime:  appState.GetStartTime(),
			UptimeSec:  uptime.Seconds(),
			Components: appState.GetAllStats(),
		})
	}
}

// failingComponents returns the sorted names whose stats do not pass ok.
func failingComponents(all map[string]pinger.Statistics, ok func(pinger.Statistics) bool) []string {
	var out []string

	for name, stats := range all {
		if !ok(stats) {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(r.Context(), "failed to encode probe response", "reason", err)
	}
}
