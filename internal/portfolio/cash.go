package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// NetCash returns the cash effect of tx on its currency bucket: Amount − Fees − Taxes.
func NetCash(tx model.Transaction) float64 {
	return tx.Amount - tx.Fees - tx.Taxes
}

// CashByCurrency sums NetCash per currency of amount.
// Buckets are accumulated as decimals so that a fully spent balance ends at
// exactly zero instead of a rounding residue.
func CashByCurrency(txs []model.Transaction) map[string]float64 {
	buckets := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		net := decimal.NewFromFloat(tx.Amount).
			Sub(decimal.NewFromFloat(tx.Fees)).
			Sub(decimal.NewFromFloat(tx.Taxes))
		buckets[tx.CurrencyOfAmount] = buckets[tx.CurrencyOfAmount].Add(net)
	}

	out := make(map[string]float64, len(buckets))
	for ccy, sum := range buckets {
		out[ccy] = sum.InexactFloat64()
	}
	return out
}
