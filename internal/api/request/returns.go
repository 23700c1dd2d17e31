// Package request holds the JSON request bodies accepted by the API.
package request

// CashFlowRequest is one dated investor cash flow.
// Negative amounts are money committed, positive amounts money returned.
type CashFlowRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// XIRRRequest asks for the money-weighted return of explicit cash flows.
type XIRRRequest struct {
	Flows []CashFlowRequest `json:"flows"`
}

// EquityPointRequest is the portfolio value on one day.
type EquityPointRequest struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

// TWRRequest asks for the time-weighted return of an equity series.
// Flows maps YYYY-MM-DD to the external flow booked that day, deposits
// positive and withdrawals negative.
type TWRRequest struct {
	Points []EquityPointRequest `json:"points"`
	Flows  map[string]float64   `json:"flows,omitempty"`
}
