package portfolio

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// DefaultWeightTolerance is the allowed deviation from 100%, in percentage points.
const DefaultWeightTolerance = 0.01

// CheckWeights sums the defined weights of every currency group and reports
// the groups whose sum is off 100% by more than tolerance. Groups without any
// defined weight are skipped. A non-positive tolerance selects
// DefaultWeightTolerance.
//
// This is a diagnostic; callers decide what to do with a deviation.
func CheckWeights(rows []model.AllocationRow, tolerance float64) []model.WeightDeviation {
	if tolerance <= 0 {
		tolerance = DefaultWeightTolerance
	}

	groups := make(map[string][]float64)
	for _, row := range rows {
		if row.WeightPercent == nil {
			continue
		}
		groups[row.Currency] = append(groups[row.Currency], *row.WeightPercent)
	}

	var deviations []model.WeightDeviation
	for ccy, weights := range groups {
		sum := floats.Sum(weights)
		if math.Abs(sum-100) > tolerance {
			deviations = append(deviations, model.WeightDeviation{Currency: ccy, Sum: sum})
		}
	}

	sort.Slice(deviations, func(i, j int) bool {
		return deviations[i].Currency < deviations[j].Currency
	})
	return deviations
}
