package model

import "time"

// CashLabel is the allocation label used for residual cash balances.
const CashLabel = "CASH"

// Position is the current holding of one instrument, derived by folding all
// transactions for that instrument. Positions have no persisted identity.
type Position struct {
	Key                string     `json:"key"`
	Shares             float64    `json:"shares"`
	LastPrice          *float64   `json:"lastPrice,omitempty"`
	LastPriceCurrency  string     `json:"lastPriceCurrency"`
	LastPriceTimestamp *time.Time `json:"lastPriceTimestamp,omitempty"`
	CostBasis          float64    `json:"costBasis"`
}

// AverageCost returns cost basis per share, or 0 when nothing is held.
func (p Position) AverageCost() float64 {
	if p.Shares <= 0 {
		return 0
	}
	return p.CostBasis / p.Shares
}

// MarketValue returns LastPrice × Shares, or 0 when no price was observed.
func (p Position) MarketValue() float64 {
	if p.LastPrice == nil {
		return 0
	}
	return *p.LastPrice * p.Shares
}

// AllocationRow is one valued and weighted line item within a currency group,
// or within the base-currency view.
//
// WeightPercent is nil when the group total is zero. Stale marks an instrument
// without any observed price. NativeCurrency and NativeValue hold the
// unconverted figures for rows produced by the base-currency variant, and
// FxFallback marks rows for which no exchange rate was available.
type AllocationRow struct {
	Currency       string   `json:"currency"`
	Label          string   `json:"label"`
	Value          float64  `json:"value"`
	WeightPercent  *float64 `json:"weightPercent"`
	Stale          bool     `json:"stale,omitempty"`
	NativeCurrency string   `json:"nativeCurrency,omitempty"`
	NativeValue    float64  `json:"nativeValue,omitempty"`
	FxFallback     bool     `json:"fxFallback,omitempty"`
}

// IsCash reports whether the row is a residual cash bucket.
func (r AllocationRow) IsCash() bool {
	return r.Label == CashLabel
}

// WeightDeviation reports a currency group whose weights do not sum to 100%.
type WeightDeviation struct {
	Currency string  `json:"currency"`
	Sum      float64 `json:"sum"`
}

// WeightCheck is the result of the per-currency weight closure diagnostic.
type WeightCheck struct {
	Tolerance  float64           `json:"tolerance"`
	OK         bool              `json:"ok"`
	Deviations []WeightDeviation `json:"deviations"`
}

// AllocationReport is an allocation table with its totals and diagnostics.
// Base, FxDate and FxFallback are only set for the base-currency view.
type AllocationReport struct {
	Base        string             `json:"base,omitempty"`
	FxDate      string             `json:"fxDate,omitempty"`
	FxFallback  bool               `json:"fxFallback,omitempty"`
	Totals      map[string]float64 `json:"totals"`
	Rows        []AllocationRow    `json:"rows"`
	WeightCheck WeightCheck        `json:"weightCheck"`
}
