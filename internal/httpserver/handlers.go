package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/guardrail-controller/internal/infra/apierror"
	"github.com/skillcoder/guardrail-controller/internal/logic/chart"
)

// decodeValues reads a YAML or JSON values document from the body and
// layers it over the chart defaults. An empty body yields the defaults.
func decodeValues(w http.ResponseWriter, r *http.Request) (chart.Values, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return chart.Values{}, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}

		return chart.Values{}, http.StatusBadRequest, fmt.Errorf("read request body: %w", err)
	}

	values := chart.DefaultValues()
	if err := values.Merge(body); err != nil {
		return chart.Values{}, http.StatusBadRequest, err
	}

	return values, http.StatusOK, nil
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("traceID", middleware.GetReqID(ctx))

	values, status, err := decodeValues(w, r)
	if err != nil {
		apierror.Write(w, r, logger, status, apierror.New(apierror.CodeInvalidRequest, err.Error()))

		return
	}

	cfg, err := s.engine.ValidateQuery(ctx, chart.SourceAPI, values)
	if err != nil {
		s.writeEngineError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		logger.ErrorContext(ctx, "failed to encode validate response", "reason", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("traceID", middleware.GetReqID(ctx))

	values, status, err := decodeValues(w, r)
	if err != nil {
		apierror.Write(w, r, logger, status, apierror.New(apierror.CodeInvalidRequest, err.Error()))

		return
	}

	out, err := s.engine.RenderQuery(ctx, chart.SourceAPI, values)
	if err != nil {
		s.writeEngineError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", contentTypeYAML)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(out); err != nil {
		logger.ErrorContext(ctx, "failed to write render response", "reason", err)
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := apierror.FromError(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "engine failure",
			"traceID", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"reason", err,
		)
	}

	apierror.Write(w, r, s.logger, status, resp)
}
