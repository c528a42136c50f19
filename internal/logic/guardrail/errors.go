package guardrail

import (
	"errors"
	"fmt"
)

var (
	ErrParse              = errors.New("parse quantity")
	ErrMissingField       = errors.New("missing required field")
	ErrForbiddenTag       = errors.New("forbidden image reference")
	ErrGuardrailViolation = errors.New("guardrail violation")
	ErrOrderingViolation  = errors.New("replica ordering violation")
)

// ParseError reports a malformed quantity string.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// MissingFieldError reports a required field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ForbiddenTagError reports an image reference containing ForbiddenImageSubstring.
// Field is image.repository, image.tag or image for the joined reference.
type ForbiddenTagError struct {
	Field string
	Value string
}

func (e *ForbiddenTagError) Error() string {
	return fmt.Sprintf("%s %q must not contain %q, pin an explicit version", e.Field, e.Value, ForbiddenImageSubstring)
}

func (e *ForbiddenTagError) Unwrap() error { return ErrForbiddenTag }

// GuardrailViolation reports a value outside its inclusive allowed range.
// Value, Min and Max are in the class base unit (millicores, mebibytes, replicas).
type GuardrailViolation struct {
	Field string
	Class Class
	Value int64
	Min   int64
	Max   int64
}

func (e *GuardrailViolation) Error() string {
	suffix := e.Class.baseSuffix()

	return fmt.Sprintf(
		"%s %d%s is outside the allowed range %d%s-%d%s",
		e.Field,
		e.Value, suffix,
		e.Min, suffix,
		e.Max, suffix,
	)
}

func (e *GuardrailViolation) Unwrap() error { return ErrGuardrailViolation }

// OrderingViolation reports maxReplicas not greater than minReplicas.
type OrderingViolation struct {
	MinReplicas int32
	MaxReplicas int32
}

func (e *OrderingViolation) Error() string {
	return fmt.Sprintf(
		"%s (%d) must be greater than %s (%d)",
		FieldMaxReplicas, e.MaxReplicas,
		FieldMinReplicas, e.MinReplicas,
	)
}

func (e *OrderingViolation) Unwrap() error { return ErrOrderingViolation }
