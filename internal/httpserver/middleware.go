package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/guardrail-controller/internal/infra/apierror"
	"github.com/skillcoder/guardrail-controller/internal/infra/metrics"
)

// rateLimit rejects requests beyond the token bucket with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.RecordRateLimitReject()

			w.Header().Set("Retry-After", "1")
			apierror.Write(w, r, s.logger, http.StatusTooManyRequests,
				apierror.New(apierror.CodeRateLimitExceeded, "rate limit exceeded"))

			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every request at debug level with its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.DebugContext(r.Context(), "request completed",
			"traceID", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
