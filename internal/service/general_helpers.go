package service

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// RoundingPrecision is the number of decimal places of monetary values and
// weights in API responses.
const RoundingPrecision = 2

// round rounds a float64 value half away from zero to RoundingPrecision
// decimal places.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(RoundingPrecision).InexactFloat64()
}

// roundRows returns a copy of rows with values and weights rounded for presentation.
func roundRows(rows []model.AllocationRow) []model.AllocationRow {
	out := make([]model.AllocationRow, len(rows))
	for i, row := range rows {
		row.Value = round(row.Value)
		row.NativeValue = round(row.NativeValue)
		if row.WeightPercent != nil {
			w := round(*row.WeightPercent)
			row.WeightPercent = &w
		}
		out[i] = row
	}
	return out
}
