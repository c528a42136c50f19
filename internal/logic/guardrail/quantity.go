package guardrail

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errMissingNumber = errors.New("missing numeric value")
	errNotInteger    = errors.New("numeric value must be a non-negative integer")
	errNotDecimal    = errors.New("cpu must be <int>m millicores or a decimal number of cores")
	errOutOfRange    = errors.New("value out of range")
)

// ParseCPU parses a CPU amount written as "<int>m" (millicores) or as a
// decimal number of cores ("2", "0.5"). Fractional cores below one millicore
// are truncated.
func ParseCPU(field, s string) (Quantity, error) {
	if s == "" {
		return Quantity{}, &MissingFieldError{Field: field}
	}

	if digits, ok := strings.CutSuffix(s, "m"); ok {
		value, err := parseDigits(digits)
		if err != nil {
			return Quantity{}, &ParseError{Field: field, Value: s, Reason: err.Error()}
		}

		return Quantity{Class: ClassCPU, Unit: UnitMilliCPU, Value: value}, nil
	}

	value, err := parseCores(s)
	if err != nil {
		return Quantity{}, &ParseError{Field: field, Value: s, Reason: err.Error()}
	}

	return Quantity{Class: ClassCPU, Unit: UnitCore, Value: value}, nil
}

// ParseMemory parses a memory amount written as "<int>Mi" or "<int>Gi".
// Any other notation is rejected.
func ParseMemory(field, s string) (Quantity, error) {
	if s == "" {
		return Quantity{}, &MissingFieldError{Field: field}
	}

	if digits, ok := strings.CutSuffix(s, "Mi"); ok {
		value, err := parseDigits(digits)
		if err != nil {
			return Quantity{}, &ParseError{Field: field, Value: s, Reason: err.Error()}
		}

		return Quantity{Class: ClassMemory, Unit: UnitMebibytes, Value: value}, nil
	}

	if digits, ok := strings.CutSuffix(s, "Gi"); ok {
		value, err := parseDigits(digits)
		if err != nil {
			return Quantity{}, &ParseError{Field: field, Value: s, Reason: err.Error()}
		}

		if value > math.MaxInt64/mebiPerGibi {
			return Quantity{}, &ParseError{Field: field, Value: s, Reason: "value out of range"}
		}

		return Quantity{Class: ClassMemory, Unit: UnitGibibytes, Value: value * mebiPerGibi}, nil
	}

	return Quantity{}, &ParseError{Field: field, Value: s, Reason: "memory must use the Mi or Gi suffix"}
}

// parseDigits accepts a non-empty run of ASCII digits.
func parseDigits(s string) (int64, error) {
	if s == "" {
		return 0, errMissingNumber
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotInteger
		}
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errOutOfRange
	}

	return value, nil
}

// parseCores converts "<digits>[.<digits>]" cores into millicores using
// integer arithmetic only.
func parseCores(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && frac == "" {
		return 0, errNotDecimal
	}

	cores, err := parseDigits(whole)
	if err != nil {
		if err == errNotInteger || err == errMissingNumber {
			return 0, errNotDecimal
		}

		return 0, err
	}

	if cores > math.MaxInt64/milliPerCore-1 {
		return 0, errOutOfRange
	}

	millis := cores * milliPerCore

	if !hasFrac {
		return millis, nil
	}

	if _, err := parseDigits(frac); err != nil && err != errOutOfRange {
		return 0, errNotDecimal
	}

	if len(frac) > coreFractionDigits {
		frac = frac[:coreFractionDigits]
	} else {
		frac += strings.Repeat("0", coreFractionDigits-len(frac))
	}

	fracMillis, err := parseDigits(frac)
	if err != nil {
		return 0, errNotDecimal
	}

	return millis + fracMillis, nil
}
