package portfolio_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/portfolio"
	"github.com/ndewijer/portfolio-insights/internal/testutil"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC)
}

func TestShareDelta(t *testing.T) {
	shares := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		action string
		shares *float64
		want   float64
	}{
		{"market buy", "Market buy", shares(3), 3},
		{"buy with negative export sign", "Limit buy", shares(-3), 3},
		{"sell", "Market sell", shares(2), -2},
		{"sell already negative", "SELL", shares(-2), -2},
		{"dividend", "Dividend (Ordinary)", shares(10), 0},
		{"interest", "Interest on cash", nil, 0},
		{"buy without shares", "Market buy", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := model.Transaction{Action: tt.action, Shares: tt.shares}
			assert.Equal(t, tt.want, portfolio.ShareDelta(tx))
		})
	}
}

func TestBuildPositions(t *testing.T) {
	t.Run("accumulates buys and sells per key", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 10, 100).WithTime(day(1)).Value(),
			testutil.NewTransaction().Buy("MSFT", 5, 300).WithTime(day(2)).Value(),
			testutil.NewTransaction().Sell("AAPL", 4, 120).WithTime(day(3)).Value(),
		}

		positions := portfolio.BuildPositions(txs)

		require.Len(t, positions, 2)
		assert.Equal(t, "AAPL", positions[0].Key)
		assert.InDelta(t, 6, positions[0].Shares, 1e-9)
		assert.InDelta(t, 120, *positions[0].LastPrice, 1e-9)
		assert.InDelta(t, 600, positions[0].CostBasis, 1e-9)
		assert.InDelta(t, 100, positions[0].AverageCost(), 1e-9)
		assert.Equal(t, "MSFT", positions[1].Key)
	})

	t.Run("excludes fully sold and short positions", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 2, 100).Value(),
			testutil.NewTransaction().Sell("AAPL", 2, 110).Value(),
			testutil.NewTransaction().Sell("TSLA", 1, 200).Value(),
		}

		assert.Empty(t, portfolio.BuildPositions(txs))
	})

	t.Run("split doubles shares and keeps cost basis", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("NVDA", 10, 500).WithTime(day(1)).Value(),
			testutil.NewTransaction().Split("NVDA", 2).WithTime(day(2)).Value(),
		}

		positions := portfolio.BuildPositions(txs)

		require.Len(t, positions, 1)
		assert.InDelta(t, 20, positions[0].Shares, 1e-9)
		assert.InDelta(t, 5000, positions[0].CostBasis, 1e-9)
		assert.InDelta(t, 250, positions[0].AverageCost(), 1e-9)
	})

	t.Run("split applies to earlier buys whatever the row order", func(t *testing.T) {
		buy := testutil.NewTransaction().Buy("AAPL", 10, 150).
			WithTime(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)).Value()
		split := testutil.NewTransaction().Split("AAPL", 2).
			WithTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).Value()

		oldestFirst := portfolio.BuildPositions([]model.Transaction{buy, split})
		newestFirst := portfolio.BuildPositions([]model.Transaction{split, buy})

		require.Len(t, oldestFirst, 1)
		require.Len(t, newestFirst, 1)
		assert.InDelta(t, 20, oldestFirst[0].Shares, 1e-9)
		assert.InDelta(t, 20, newestFirst[0].Shares, 1e-9)
		assert.InDelta(t, 1500, newestFirst[0].CostBasis, 1e-9)
	})

	t.Run("untimed rows keep their position in the fold", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 4, 10).WithTime(day(3)).Value(),
			testutil.NewTransaction().Split("AAPL", 2).WithoutTime().Value(),
			testutil.NewTransaction().Buy("AAPL", 1, 10).WithTime(day(1)).Value(),
		}

		positions := portfolio.BuildPositions(txs)

		require.Len(t, positions, 1)
		// day 1 buy, then the split, then the day 3 buy.
		assert.InDelta(t, 6, positions[0].Shares, 1e-9)
	})

	t.Run("latest timed price wins", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 1, 150).WithTime(day(5)).Value(),
			testutil.NewTransaction().Buy("AAPL", 1, 100).WithTime(day(1)).Value(),
			testutil.NewTransaction().Buy("AAPL", 1, 999).WithoutTime().Value(),
		}

		positions := portfolio.BuildPositions(txs)

		require.Len(t, positions, 1)
		assert.InDelta(t, 150, *positions[0].LastPrice, 1e-9)
		assert.Equal(t, day(5), *positions[0].LastPriceTimestamp)
	})

	t.Run("ties keep the first seen price", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 1, 150).WithTime(day(5)).Value(),
			testutil.NewTransaction().Buy("AAPL", 1, 160).WithTime(day(5)).Value(),
		}

		positions := portfolio.BuildPositions(txs)

		assert.InDelta(t, 150, *positions[0].LastPrice, 1e-9)
	})

	t.Run("untimed rows keep the first seen price", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 1, 150).WithoutTime().Value(),
			testutil.NewTransaction().Buy("AAPL", 1, 160).WithoutTime().Value(),
		}

		positions := portfolio.BuildPositions(txs)

		assert.InDelta(t, 150, *positions[0].LastPrice, 1e-9)
		assert.Nil(t, positions[0].LastPriceTimestamp)
	})

	t.Run("non-finite price is ignored", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 1, 150).WithTime(day(1)).Value(),
			testutil.NewTransaction().Buy("AAPL", 1, math.Inf(1)).WithTime(day(2)).Value(),
		}

		positions := portfolio.BuildPositions(txs)

		assert.InDelta(t, 150, *positions[0].LastPrice, 1e-9)
	})

	t.Run("position without price keeps its currency", func(t *testing.T) {
		tx := testutil.NewTransaction().Buy("VWRL", 3, 0).WithCurrency("GBP").Value()
		tx.Price = nil

		positions := portfolio.BuildPositions([]model.Transaction{tx})

		require.Len(t, positions, 1)
		assert.Nil(t, positions[0].LastPrice)
		assert.Equal(t, "GBP", positions[0].LastPriceCurrency)
		assert.Equal(t, 0.0, positions[0].MarketValue())
	})

	t.Run("falls back to name when ticker is missing", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("", 2, 10).WithName(" Some Fund ").Value(),
		}

		positions := portfolio.BuildPositions(txs)

		require.Len(t, positions, 1)
		assert.Equal(t, "Some Fund", positions[0].Key)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		txs := []model.Transaction{
			testutil.NewTransaction().Buy("AAPL", 10, 100).WithTime(day(1)).Value(),
			testutil.NewTransaction().Split("AAPL", 3).Value(),
		}
		before := make([]model.Transaction, len(txs))
		copy(before, txs)

		portfolio.BuildPositions(txs)

		assert.Equal(t, before, txs)
		assert.Equal(t, 10.0, *txs[0].Shares)
	})
}
