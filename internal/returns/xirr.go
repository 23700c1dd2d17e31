package returns

import (
	"math"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

const (
	daysPerYear = 365.25

	xirrGuess     = 0.10
	xirrTolerance = 1e-6
	xirrMaxIter   = 100
	xirrLowRate   = -0.99
	xirrHighRate  = 10.0
)

// NPV returns the net present value of flows discounted at rate, with time
// measured in 365.25-day years from the earliest flow.
func NPV(rate float64, flows []model.CashFlow) float64 {
	start := earliest(flows)
	var npv float64
	for _, cf := range flows {
		npv += cf.Amount / math.Pow(1+rate, years(start, cf.Date))
	}
	return npv
}

// ComputeXIRR returns the annualized internal rate of return of dated cash flows.
//
// Negative flows are money committed and positive flows money returned; at
// least one of each is required. Newton-Raphson is tried first from a 10%
// guess and abandoned when it leaves [-0.99, 10] or does not converge within
// 100 iterations; bisection over the same bracket is the fallback.
//
// Returns:
//   - model.ReturnResult: The rate, or an undetermined 0 when the flows are
//     degenerate or neither solver finds a finite root
func ComputeXIRR(flows []model.CashFlow) model.ReturnResult {
	var hasNeg, hasPos bool
	for _, cf := range flows {
		if cf.Amount < 0 {
			hasNeg = true
		}
		if cf.Amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return model.Undetermined("cash flows need at least one outflow and one inflow")
	}

	start := earliest(flows)
	t := make([]float64, len(flows))
	var span float64
	for i, cf := range flows {
		t[i] = years(start, cf.Date)
		span = math.Max(span, t[i])
	}
	if span == 0 {
		return model.Undetermined("cash flows span no time")
	}

	if rate, ok := newton(flows, t); ok {
		return model.Determined(rate)
	}
	if rate, ok := bisect(flows, t); ok {
		return model.Determined(rate)
	}
	return model.Undetermined("no root found in [-0.99, 10]")
}

func newton(flows []model.CashFlow, t []float64) (float64, bool) {
	rate := xirrGuess
	for i := 0; i < xirrMaxIter; i++ {
		npv, dnpv := npvAndDerivative(rate, flows, t)
		if dnpv == 0 || !finite(npv) || !finite(dnpv) {
			return 0, false
		}
		next := rate - npv/dnpv
		if !finite(next) || next < xirrLowRate || next > xirrHighRate {
			return 0, false
		}
		if math.Abs(next-rate) < xirrTolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}

func bisect(flows []model.CashFlow, t []float64) (float64, bool) {
	lo, hi := xirrLowRate, xirrHighRate
	fLo, _ := npvAndDerivative(lo, flows, t)
	fHi, _ := npvAndDerivative(hi, flows, t)
	if !finite(fLo) || !finite(fHi) || fLo*fHi > 0 {
		return 0, false
	}

	for i := 0; i < xirrMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid, _ := npvAndDerivative(mid, flows, t)
		if !finite(fMid) {
			return 0, false
		}
		if math.Abs(fMid) < xirrTolerance {
			return mid, true
		}
		if (fMid < 0) == (fLo < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	mid := (lo + hi) / 2
	return mid, finite(mid)
}

func npvAndDerivative(rate float64, flows []model.CashFlow, t []float64) (float64, float64) {
	var npv, dnpv float64
	for i, cf := range flows {
		disc := math.Pow(1+rate, t[i])
		npv += cf.Amount / disc
		dnpv -= t[i] * cf.Amount / (disc * (1 + rate))
	}
	return npv, dnpv
}

func earliest(flows []model.CashFlow) time.Time {
	var start time.Time
	for i, cf := range flows {
		if i == 0 || cf.Date.Before(start) {
			start = cf.Date
		}
	}
	return start
}

func years(start, at time.Time) float64 {
	return at.Sub(start).Hours() / 24 / daysPerYear
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
