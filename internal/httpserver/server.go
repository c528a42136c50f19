package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/skillcoder/guardrail-controller/internal/infra/appstate"
	"github.com/skillcoder/guardrail-controller/internal/infra/shutdown"
)

// Options configures the API server. Zero values fall back to defaults.
type Options struct {
	Port           string
	RateLimit      float64
	RateLimitBurst int
}

// Server serves the health endpoints and the /v1 validation API.
type Server struct {
	*listener

	appState appstater
	engine   chartEngine
	limiter  *rate.Limiter
}

func New(logger *slog.Logger, appState appstater, engine chartEngine, opts Options) *Server {
	if opts.Port == "" {
		opts.Port = defaultPort
	}

	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if opts.RateLimitBurst < 1 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}

	return &Server{
		listener: newListener(logger, "http-server", opts.Port),
		appState: appState,
		engine:   engine,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateLimitBurst),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

func (s *Server) Start(ctx context.Context) error {
	return s.start(ctx, s.Router())
}

// Router builds the handler tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/-/healthz", appstate.HandleHealthz(s.logger, s.appState))
	router.Get("/-/readyz", appstate.HandleReadyz(s.logger, s.appState))
	router.Get("/-/status", appstate.HandleStatus(s.logger, s.appState))

	router.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/validate", s.handleValidate)
		r.Post("/render", s.handleRender)
	})

	return router
}
