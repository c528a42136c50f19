package guardrail

// Request derives the request for a validated limit: half of the limit,
// floored to a whole millicore or mebibyte. CPU keeps the limit's notation;
// memory is always expressed in Mi.
func Request(limit Quantity) Quantity {
	unit := limit.Unit
	if limit.Class == ClassMemory {
		unit = UnitMebibytes
	}

	return Quantity{
		Class: limit.Class,
		Unit:  unit,
		Value: limit.Value / requestDivisor,
	}
}
