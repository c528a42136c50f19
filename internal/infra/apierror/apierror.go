package apierror

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

// Code is the machine-readable error code of an API error.
type Code string

const (
	CodeInvalidRequest     Code = "INVALID_REQUEST"
	CodeParseError         Code = "PARSE_ERROR"
	CodeMissingField       Code = "MISSING_FIELD"
	CodeForbiddenTag       Code = "FORBIDDEN_TAG"
	CodeGuardrailViolation Code = "GUARDRAIL_VIOLATION"
	CodeOrderingViolation  Code = "ORDERING_VIOLATION"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal           Code = "INTERNAL"
)

// Response is the JSON error envelope returned by the API.
type Response struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Field     string         `json:"field,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// New builds a Response that is not tied to a guardrail error.
func New(code Code, message string) Response {
	return Response{
		Code:      code,
		Message:   message,
		Retryable: code == CodeRateLimitExceeded,
	}
}

// FromError maps err to an HTTP status and envelope. Guardrail failures are
// 422 with the message shown verbatim; anything else is a 500 with a
// generic message.
func FromError(err error) (int, Response) {
	var code Code

	switch {
	case errors.Is(err, guardrail.ErrParse):
		code = CodeParseError
	case errors.Is(err, guardrail.ErrMissingField):
		code = CodeMissingField
	case errors.Is(err, guardrail.ErrForbiddenTag):
		code = CodeForbiddenTag
	case errors.Is(err, guardrail.ErrGuardrailViolation):
		code = CodeGuardrailViolation
	case errors.Is(err, guardrail.ErrOrderingViolation):
		code = CodeOrderingViolation
	default:
		return http.StatusInternalServerError, New(CodeInternal, "internal server error")
	}

	resp := Response{
		Code:    code,
		Message: err.Error(),
		Field:   guardrail.FieldOf(err),
	}

	var violation *guardrail.GuardrailViolation
	if errors.As(err, &violation) {
		resp.Details = map[string]any{
			"value": violation.Value,
			"min":   violation.Min,
			"max":   violation.Max,
		}
	}

	var ordering *guardrail.OrderingViolation
	if errors.As(err, &ordering) {
		resp.Details = map[string]any{
			"minReplicas": ordering.MinReplicas,
			"maxReplicas": ordering.MaxReplicas,
		}
	}

	return http.StatusUnprocessableEntity, resp
}

// Write sends resp with status, stamping the chi request id.
func Write(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, resp Response) {
	resp.RequestID = middleware.GetReqID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(r.Context(), "failed to encode error response", "reason", err)
	}
}
