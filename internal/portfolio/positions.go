// Package portfolio reconstructs holdings from normalized transactions and
// values them per currency or in a single base currency.
//
// Everything here is a pure fold over the full transaction history: inputs are
// never mutated and no incremental state is kept between calls.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/importer"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// ShareDelta returns the change in share count caused by tx.
// Actions containing "buy" add |shares|, actions containing "sell" remove
// |shares|, and every other action leaves the count unchanged.
func ShareDelta(tx model.Transaction) float64 {
	if tx.Shares == nil {
		return 0
	}
	shares := math.Abs(*tx.Shares)
	switch {
	case importer.ActionContains(tx.Action, "buy"):
		return shares
	case importer.ActionContains(tx.Action, "sell"):
		return -shares
	default:
		return 0
	}
}

type positionState struct {
	shares    float64
	cost      float64
	price     *float64
	priceCcy  string
	priceTime *time.Time
	anyCcy    string
}

// BuildPositions folds transactions into the current holdings per instrument
// key. Timed rows are folded chronologically (stable for equal times); rows
// without a time keep their input position.
//
// Cost basis follows the average cost method: buys add shares × price, sells
// release the proportional part of the basis, and split rows multiply the
// running share count while keeping the basis unchanged.
//
// The last price of an instrument comes from the row with the latest time
// carrying a finite price. Rows without a time, or with a time equal to the
// current choice, never replace it.
//
// Only instruments with a positive share count are returned, sorted by key.
//
// Parameters:
//   - txs: Normalized transactions in any order
//
// Returns:
//   - []model.Position: Open positions, sorted by key
func BuildPositions(txs []model.Transaction) []model.Position {
	states := make(map[string]*positionState)

	for _, tx := range chronological(txs) {
		key := tx.Key()
		if key == "" {
			continue
		}
		st, ok := states[key]
		if !ok {
			st = &positionState{}
			states[key] = st
		}
		if st.anyCcy == "" {
			st.anyCcy = tx.CurrencyOfPrice
		}

		delta := ShareDelta(tx)
		switch {
		case delta > 0:
			st.shares += delta
			if tx.Price != nil && isFinite(*tx.Price) {
				st.cost += delta * *tx.Price
			}
		case delta < 0:
			before := st.shares
			st.shares += delta
			if st.shares > 0 && before > 0 {
				st.cost = st.cost / before * st.shares
			} else {
				st.cost = 0
			}
		}

		if tx.SplitRatio != nil && *tx.SplitRatio > 0 {
			st.shares *= *tx.SplitRatio
		}

		considerPrice(st, tx)
	}

	positions := make([]model.Position, 0, len(states))
	for key, st := range states {
		if st.shares <= 0 {
			continue
		}
		ccy := st.priceCcy
		if st.price == nil {
			ccy = st.anyCcy
		}
		positions = append(positions, model.Position{
			Key:                key,
			Shares:             st.shares,
			LastPrice:          st.price,
			LastPriceCurrency:  ccy,
			LastPriceTimestamp: st.priceTime,
			CostBasis:          st.cost,
		})
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Key < positions[j].Key
	})
	return positions
}

// chronological returns a copy of txs whose timed rows are stably sorted by
// time within the slots timed rows occupy. Untimed rows stay where they are.
func chronological(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	copy(out, txs)

	slots := make([]int, 0, len(out))
	timed := make([]model.Transaction, 0, len(out))
	for i, tx := range out {
		if tx.Time != nil {
			slots = append(slots, i)
			timed = append(timed, tx)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Time.Before(*timed[j].Time)
	})
	for i, slot := range slots {
		out[slot] = timed[i]
	}
	return out
}

func considerPrice(st *positionState, tx model.Transaction) {
	if tx.Price == nil || !isFinite(*tx.Price) {
		return
	}
	switch {
	case st.price == nil:
	case tx.Time == nil:
		return
	case st.priceTime != nil && !tx.Time.After(*st.priceTime):
		return
	}
	price := *tx.Price
	st.price = &price
	st.priceCcy = tx.CurrencyOfPrice
	st.priceTime = nil
	if tx.Time != nil {
		at := *tx.Time
		st.priceTime = &at
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
