package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/api/request"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// DateLayout is the date format accepted in return requests.
const DateLayout = "2006-01-02"

// ValidateXIRRRequest validates an explicit cash-flow request and converts it.
//
// Required fields:
//   - flows: At least one entry
//   - flows[i].date: YYYY-MM-DD
//   - flows[i].amount: Finite number
//
// A set of flows without both signs is valid input; it yields an
// undetermined rate rather than a validation error.
func ValidateXIRRRequest(req request.XIRRRequest) ([]model.CashFlow, error) {
	fields := make(map[string]string)
	if len(req.Flows) == 0 {
		fields["flows"] = "at least one cash flow is required"
	}

	flows := make([]model.CashFlow, 0, len(req.Flows))
	for i, f := range req.Flows {
		date, err := time.Parse(DateLayout, f.Date)
		if err != nil {
			fields[fmt.Sprintf("flows[%d].date", i)] = "date must be in YYYY-MM-DD format"
			continue
		}
		if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
			fields[fmt.Sprintf("flows[%d].amount", i)] = "amount must be a finite number"
			continue
		}
		flows = append(flows, model.CashFlow{Date: date, Amount: f.Amount})
	}

	if err := fieldsOrNil(fields); err != nil {
		return nil, err
	}
	return flows, nil
}

// ValidateTWRRequest validates an equity series request and converts it.
//
// Required fields:
//   - points: At least one entry, each with a YYYY-MM-DD date
//   - flows: Keys in YYYY-MM-DD format
func ValidateTWRRequest(req request.TWRRequest) ([]model.EquityPoint, map[string]float64, error) {
	fields := make(map[string]string)
	if len(req.Points) == 0 {
		fields["points"] = "at least one equity point is required"
	}

	points := make([]model.EquityPoint, 0, len(req.Points))
	for i, p := range req.Points {
		date, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			fields[fmt.Sprintf("points[%d].date", i)] = "date must be in YYYY-MM-DD format"
			continue
		}
		points = append(points, model.EquityPoint{Date: date, Equity: p.Equity})
	}

	flows := make(map[string]float64, len(req.Flows))
	for key, amount := range req.Flows {
		date, err := time.Parse(DateLayout, key)
		if err != nil {
			fields["flows."+key] = "flow dates must be in YYYY-MM-DD format"
			continue
		}
		flows[date.Format(DateLayout)] += amount
	}

	if err := fieldsOrNil(fields); err != nil {
		return nil, nil, err
	}
	return points, flows, nil
}
