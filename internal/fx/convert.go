package fx

import "github.com/ndewijer/portfolio-insights/internal/model"

// Convert converts amount from one currency to another using snapshot.
// A missing rate leaves the amount at face value.
func Convert(amount float64, from, to string, snapshot model.FxSnapshot) float64 {
	converted, _ := ConvertOK(amount, from, to, snapshot)
	return converted
}

// ConvertOK is Convert that also reports whether every rate needed was known.
//
//   - from == to: amount is returned unchanged
//   - to == base: amount / rates[from]
//   - from == base: amount × rates[to]
//   - otherwise the amount is routed through the base currency
func ConvertOK(amount float64, from, to string, snapshot model.FxSnapshot) (float64, bool) {
	from, to = normalizeCode(from), normalizeCode(to)
	base := normalizeCode(snapshot.Base)

	if from == to {
		return amount, true
	}

	switch base {
	case to:
		rate, ok := snapshot.Rate(from)
		if !ok {
			return amount, false
		}
		return amount / rate, true
	case from:
		rate, ok := snapshot.Rate(to)
		if !ok {
			return amount, false
		}
		return amount * rate, true
	}

	// Both legs must be known, otherwise the amount stays at face value.
	fromRate, okFrom := snapshot.Rate(from)
	toRate, okTo := snapshot.Rate(to)
	if !okFrom || !okTo {
		return amount, false
	}
	return amount / fromRate * toRate, true
}
