package portfolio

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/portfolio-insights/internal/fx"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// RateSource supplies the exchange-rate snapshot for a base currency.
// *fx.Provider satisfies it.
type RateSource interface {
	GetRates(ctx context.Context, base string) model.FxSnapshot
}

// ValueAndWeightsByCurrency values every open position and cash bucket and
// weights each row against the total of its own currency.
//
// Positions without an observed price are kept with value 0 and Stale set.
// Cash buckets that net to exactly zero are omitted. When a currency total is
// zero every weight of that group is nil.
//
// Rows are sorted by currency, then by descending weight, then by label.
func ValueAndWeightsByCurrency(txs []model.Transaction) []model.AllocationRow {
	rows := valueRows(txs)

	totals := make(map[string][]float64)
	for _, row := range rows {
		totals[row.Currency] = append(totals[row.Currency], row.Value)
	}
	for i := range rows {
		rows[i].WeightPercent = weight(rows[i].Value, floats.Sum(totals[rows[i].Currency]))
	}

	sortRows(rows)
	return rows
}

// ValueAndWeightsInBase converts every row of ValueAndWeightsByCurrency into
// base and recomputes a single global total and weight set.
//
// Rows whose currency has no known rate keep their nominal value, are flagged
// FxFallback and produce a warning log line; they are never dropped. Zero-value
// rows, such as stale positions, need no rate and are not flagged. Every row
// reports Currency = base and keeps its native currency and value.
//
// Parameters:
//   - ctx: Context passed to the rate source
//   - txs: Normalized transactions
//   - base: Target currency code (case-insensitive)
//   - rates: Source of the exchange-rate snapshot for base
//   - logger: Receives fallback warnings
//
// Returns:
//   - []model.AllocationRow: Rows in base currency, sorted like ValueAndWeightsByCurrency
func ValueAndWeightsInBase(
	ctx context.Context,
	txs []model.Transaction,
	base string,
	rates RateSource,
	logger zerolog.Logger,
) []model.AllocationRow {
	base = strings.ToUpper(strings.TrimSpace(base))
	snapshot := rates.GetRates(ctx, base)

	rows := valueRows(txs)
	values := make([]float64, len(rows))
	for i := range rows {
		row := &rows[i]
		converted, ok := fx.ConvertOK(row.Value, row.Currency, base, snapshot)
		if !ok && row.Value != 0 {
			row.FxFallback = true
			logger.Warn().
				Str("currency", row.Currency).
				Str("base", base).
				Str("label", row.Label).
				Float64("value", row.Value).
				Msg("No FX rate available, keeping nominal value")
		}
		row.NativeCurrency = row.Currency
		row.NativeValue = row.Value
		row.Currency = base
		row.Value = converted
		values[i] = converted
	}

	total := floats.Sum(values)
	for i := range rows {
		rows[i].WeightPercent = weight(rows[i].Value, total)
	}

	sortRows(rows)
	return rows
}

// TotalValue sums the values of rows.
func TotalValue(rows []model.AllocationRow) float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.Value
	}
	return floats.Sum(values)
}

func valueRows(txs []model.Transaction) []model.AllocationRow {
	positions := BuildPositions(txs)
	cash := CashByCurrency(txs)

	rows := make([]model.AllocationRow, 0, len(positions)+len(cash))
	for _, p := range positions {
		rows = append(rows, model.AllocationRow{
			Currency: p.LastPriceCurrency,
			Label:    p.Key,
			Value:    p.MarketValue(),
			Stale:    p.LastPrice == nil,
		})
	}
	for ccy, value := range cash {
		if value == 0 {
			continue
		}
		rows = append(rows, model.AllocationRow{
			Currency: ccy,
			Label:    model.CashLabel,
			Value:    value,
		})
	}
	return rows
}

func weight(value, total float64) *float64 {
	if total == 0 {
		return nil
	}
	w := value / total * 100
	return &w
}

func sortRows(rows []model.AllocationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		switch {
		case a.WeightPercent == nil && b.WeightPercent != nil:
			return false
		case a.WeightPercent != nil && b.WeightPercent == nil:
			return true
		case a.WeightPercent != nil && *a.WeightPercent != *b.WeightPercent:
			return *a.WeightPercent > *b.WeightPercent
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.NativeCurrency < b.NativeCurrency
	})
}
