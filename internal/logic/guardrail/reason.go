package guardrail

import "errors"

// Reason values classify guardrail errors for metrics and API responses.
const (
	ReasonParse              = "parse_error"
	ReasonMissingField       = "missing_field"
	ReasonForbiddenTag       = "forbidden_tag"
	ReasonGuardrailViolation = "guardrail_violation"
	ReasonOrderingViolation  = "ordering_violation"
	ReasonUnknown            = "unknown"
)

// Reason returns the classification of err, ReasonUnknown for errors outside
// the guardrail taxonomy and an empty string for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return ReasonParse
	case errors.Is(err, ErrMissingField):
		return ReasonMissingField
	case errors.Is(err, ErrForbiddenTag):
		return ReasonForbiddenTag
	case errors.Is(err, ErrGuardrailViolation):
		return ReasonGuardrailViolation
	case errors.Is(err, ErrOrderingViolation):
		return ReasonOrderingViolation
	default:
		return ReasonUnknown
	}
}

// FieldOf returns the field an error refers to, or an empty string.
func FieldOf(err error) string {
	var (
		parseErr     *ParseError
		missingErr   *MissingFieldError
		forbiddenErr *ForbiddenTagError
		violation    *GuardrailViolation
		ordering     *OrderingViolation
	)

	switch {
	case errors.As(err, &parseErr):
		return parseErr.Field
	case errors.As(err, &missingErr):
		return missingErr.Field
	case errors.As(err, &forbiddenErr):
		return forbiddenErr.Field
	case errors.As(err, &violation):
		return violation.Field
	case errors.As(err, &ordering):
		return FieldMaxReplicas
	default:
		return ""
	}
}
