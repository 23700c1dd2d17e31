package model

import "time"

// FxSnapshot holds exchange rates relative to Base: Rates[c] is the number of
// units of c per one unit of Base. Rates[Base] is always 1.
//
// Fallback marks the identity snapshot cached after a failed fetch.
type FxSnapshot struct {
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Fallback  bool               `json:"fallback,omitempty"`
}

// IdentitySnapshot returns a snapshot that only knows its own base currency.
func IdentitySnapshot(base string, at time.Time) FxSnapshot {
	return FxSnapshot{
		Base:      base,
		Date:      at.UTC().Format("2006-01-02"),
		Rates:     map[string]float64{base: 1},
		FetchedAt: at,
		Fallback:  true,
	}
}

// Rate returns the rate for currency and whether it is known and positive.
func (s FxSnapshot) Rate(currency string) (float64, bool) {
	rate, ok := s.Rates[currency]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}
