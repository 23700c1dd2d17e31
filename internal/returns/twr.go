// Package returns computes time-weighted and money-weighted (XIRR) returns.
//
// Both calculators answer with a model.ReturnResult: the rate is 0 and the
// status undetermined whenever the input does not allow a meaningful figure.
package returns

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// DateKeyLayout is the layout of the keys of an external-flow map.
const DateKeyLayout = "2006-01-02"

// DateKey returns the flow-map key for t, in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// ComputeTWR returns the time-weighted return of an equity series.
//
// The points are sorted chronologically. For every consecutive pair the
// external flow booked on the later day is removed before computing that
// period's return, r = (E_d − E_{d−1} − flow_d) / E_{d−1}; periods starting
// from a non-positive equity are skipped. The period returns are compounded.
//
// Parameters:
//   - points: Equity values; order does not matter
//   - flows: External cash flows keyed by DateKey (deposits positive, withdrawals negative)
//
// Returns:
//   - model.ReturnResult: Undetermined when fewer than two points or no usable period exist
func ComputeTWR(points []model.EquityPoint, flows map[string]float64) model.ReturnResult {
	if len(points) < 2 {
		return model.Undetermined("at least two equity points are required")
	}

	sorted := make([]model.EquityPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	growth := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Equity
		if prev <= 0 {
			continue
		}
		flow := flows[DateKey(sorted[i].Date)]
		growth = append(growth, 1+(sorted[i].Equity-prev-flow)/prev)
	}

	if len(growth) == 0 {
		return model.Undetermined("no period starts from positive equity")
	}
	return model.Determined(floats.Prod(growth) - 1)
}
