package returns

import (
	"sort"

	"github.com/ndewijer/portfolio-insights/internal/importer"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// IsExternal reports whether tx moves money between the investor and the
// account, as opposed to activity inside the account.
func IsExternal(tx model.Transaction) bool {
	return importer.ActionContains(tx.Action, "deposit") ||
		importer.ActionContains(tx.Action, "withdraw")
}

// ExternalFlows returns the deposits and withdrawals of txs as investor cash
// flows, sorted by date. Account-side amounts are flipped: a deposit is money
// the investor commits (negative), a withdrawal money returned (positive).
// The gross amount is used; fees charged on a deposit are a cost inside the
// account. Rows without a time or with a zero amount are skipped.
func ExternalFlows(txs []model.Transaction) []model.CashFlow {
	flows := make([]model.CashFlow, 0)
	for _, tx := range txs {
		if tx.Time == nil || tx.Amount == 0 || !IsExternal(tx) {
			continue
		}
		flows = append(flows, model.CashFlow{Date: *tx.Time, Amount: -tx.Amount})
	}
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date.Before(flows[j].Date)
	})
	return flows
}

// FlowsByDate aggregates investor cash flows into the account-side per-day
// map ComputeTWR expects: deposits positive, withdrawals negative.
func FlowsByDate(flows []model.CashFlow) map[string]float64 {
	out := make(map[string]float64, len(flows))
	for _, cf := range flows {
		out[DateKey(cf.Date)] -= cf.Amount
	}
	return out
}
