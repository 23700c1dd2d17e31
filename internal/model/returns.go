package model

import "time"

// CashFlow is a signed investor cash flow: negative when money is committed,
// positive when money is returned.
type CashFlow struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// EquityPoint is the total portfolio value on a given date.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// ReturnStatus tells whether a return figure could actually be computed.
type ReturnStatus string

const (
	ReturnDetermined   ReturnStatus = "determined"
	ReturnUndetermined ReturnStatus = "undetermined"
)

// ReturnResult carries a return rate together with whether it was determined.
// Rate is always 0 when Status is ReturnUndetermined, so callers that only read
// Rate keep the historical behaviour, while callers that care can tell a real
// zero from a missing answer.
type ReturnResult struct {
	Rate   float64      `json:"rate"`
	Status ReturnStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// Determined wraps a computed rate.
func Determined(rate float64) ReturnResult {
	return ReturnResult{Rate: rate, Status: ReturnDetermined}
}

// Undetermined returns a zero rate flagged as not computable.
func Undetermined(reason string) ReturnResult {
	return ReturnResult{Status: ReturnUndetermined, Reason: reason}
}

// IsDetermined reports whether Rate is a computed value.
func (r ReturnResult) IsDetermined() bool {
	return r.Status == ReturnDetermined
}

// PortfolioReturn is the money-weighted return of the stored history in one
// base currency. Flows are the investor cash flows fed to XIRR, ending with
// the current portfolio value dated AsOf.
type PortfolioReturn struct {
	Base          string       `json:"base"`
	AsOf          time.Time    `json:"asOf"`
	TerminalValue float64      `json:"terminalValue"`
	Flows         []CashFlow   `json:"flows"`
	Result        ReturnResult `json:"result"`
}
