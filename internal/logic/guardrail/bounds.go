package guardrail

// Range is an inclusive numeric range.
type Range struct {
	Min int64
	Max int64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int64) bool {
	return v >= r.Min && v <= r.Max
}

// CheckLimit verifies that a parsed limit lies within its class guardrail.
func CheckLimit(field string, q Quantity) error {
	switch q.Class {
	case ClassCPU:
		return checkRange(field, ClassCPU, q.Value, CPULimitRange)
	case ClassMemory:
		return checkRange(field, ClassMemory, q.Value, MemoryLimitRange)
	default:
		return &ParseError{Field: field, Value: q.String(), Reason: "unknown quantity class"}
	}
}

func checkRange(field string, class Class, value int64, r Range) error {
	if r.Contains(value) {
		return nil
	}

	return &GuardrailViolation{
		Field: field,
		Class: class,
		Value: value,
		Min:   r.Min,
		Max:   r.Max,
	}
}
