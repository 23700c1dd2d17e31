package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRow_Trade(t *testing.T) {
	row := RawRow{
		"Action":                   "Market buy",
		"Time":                     "2024-03-01 14:30:05",
		"Ticker":                   " AAPL ",
		"Name":                     "Apple Inc",
		"No. of shares":            "2.5",
		"Price / share":            "180.20",
		"Currency (Price / share)": "usd",
		"Total":                    "412.34",
		"Currency (Total)":         "EUR",
		"Currency conversion fee":  "0.62",
		"French transaction tax":   "",
		"Stamp duty reserve tax":   "1,10",
	}

	tx := NormalizeRow(row)

	require.NotNil(t, tx.Time)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 30, 5, 0, time.UTC), *tx.Time)
	assert.Equal(t, "Market buy", tx.Action)
	assert.Equal(t, "AAPL", tx.Ticker)
	assert.Equal(t, "AAPL", tx.Key())
	assert.Equal(t, "EUR", tx.CurrencyOfAmount)
	assert.Equal(t, "USD", tx.CurrencyOfPrice)
	assert.InDelta(t, -412.34, tx.Amount, 1e-9)
	assert.InDelta(t, 0.62, tx.Fees, 1e-9)
	assert.InDelta(t, 1.10, tx.Taxes, 1e-9)
	require.NotNil(t, tx.Shares)
	assert.InDelta(t, 2.5, *tx.Shares, 1e-9)
	require.NotNil(t, tx.Price)
	assert.InDelta(t, 180.20, *tx.Price, 1e-9)
	assert.Nil(t, tx.SplitRatio)
	assert.True(t, tx.IsTrade())
}

func TestNormalizeRow_AmountAliases(t *testing.T) {
	t.Run("Amount wins over later aliases", func(t *testing.T) {
		tx := NormalizeRow(RawRow{"Action": "Deposit", "Amount": "100", "Total amount": "999"})
		assert.InDelta(t, 100, tx.Amount, 1e-9)
	})

	t.Run("falls through empty columns", func(t *testing.T) {
		tx := NormalizeRow(RawRow{"Action": "Deposit", "Amount": " ", "Amount value": "250"})
		assert.InDelta(t, 250, tx.Amount, 1e-9)
	})

	t.Run("header matching ignores case", func(t *testing.T) {
		tx := NormalizeRow(RawRow{"action": "Deposit", "TOTAL AMOUNT": "75"})
		assert.InDelta(t, 75, tx.Amount, 1e-9)
	})
}

func TestNormalizeRow_MalformedInputDegrades(t *testing.T) {
	tx := NormalizeRow(RawRow{
		"Action":        "Market sell",
		"Time":          "yesterday",
		"Amount":        "lots",
		"Fee amount":    "n/a",
		"Tax amount":    "-",
		"Price / share": "?",
		"No. of shares": "",
		"Split ratio":   "two for one",
	})

	assert.Nil(t, tx.Time)
	assert.Zero(t, tx.Amount)
	assert.Zero(t, tx.Fees)
	assert.Zero(t, tx.Taxes)
	assert.Nil(t, tx.Price)
	assert.Nil(t, tx.Shares)
	assert.Nil(t, tx.SplitRatio)
	assert.False(t, tx.IsTrade())
}

func TestNormalizeRow_EmptyRow(t *testing.T) {
	tx := NormalizeRow(RawRow{})

	assert.Equal(t, "", tx.Action)
	assert.Equal(t, "", tx.Key())
	assert.Zero(t, tx.Amount)
	assert.Zero(t, tx.Fees)
	assert.Zero(t, tx.Taxes)
}

func TestNormalizeRow_FeesAndTaxesArePooled(t *testing.T) {
	tx := NormalizeRow(RawRow{
		"Action":                  "Deposit",
		"Amount":                  "1000",
		"Fee amount":              "-1.50",
		"Deposit fee":             "2",
		"Charge amount":           "0,25",
		"Currency conversion fee": "0.10",
		"Tax amount":              "3",
		"Withholding tax":         "-0.45",
		"French transaction tax":  "0.05",
	})

	assert.InDelta(t, 3.85, tx.Fees, 1e-9)
	assert.InDelta(t, 3.50, tx.Taxes, 1e-9)
}

func TestNormalizeRow_SplitRatioAliases(t *testing.T) {
	tests := []struct {
		column string
		value  string
		want   float64
	}{
		{column: "Split ratio", value: "2:1", want: 2},
		{column: "Ratio", value: "3/1", want: 3},
		{column: "Split", value: "4", want: 4},
		{column: "Reverse split", value: "1:5", want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			tx := NormalizeRow(RawRow{"Action": "Stock split", "Ticker": "X", tt.column: tt.value})
			require.NotNil(t, tx.SplitRatio)
			assert.InDelta(t, tt.want, *tx.SplitRatio, 1e-9)
		})
	}
}

func TestNormalizeRow_NameIsKeyWithoutTicker(t *testing.T) {
	tx := NormalizeRow(RawRow{"Action": "Market buy", "Name": "  Vanguard FTSE All-World  "})
	assert.Equal(t, "Vanguard FTSE All-World", tx.Key())
}

func TestNormalizeRow_PriceCurrencyFallsBackToAmountCurrency(t *testing.T) {
	tx := NormalizeRow(RawRow{"Action": "Market buy", "Currency (Amount)": "gbp"})
	assert.Equal(t, "GBP", tx.CurrencyOfAmount)
	assert.Equal(t, "GBP", tx.CurrencyOfPrice)
}

// Buys must never increase cash and sells must never decrease it, whatever
// sign the broker used in the export.
func TestNormalizeRow_SignConvention(t *testing.T) {
	amounts := []string{"100", "-100", "0", "1,234.50", "(55)"}

	buyActions := []string{"buy", "Market buy", "LIMIT BUY", "Stop limit buy"}
	sellActions := []string{"sell", "Market sell", "LIMIT SELL", "Stop sell"}

	for _, amount := range amounts {
		for _, action := range buyActions {
			tx := NormalizeRow(RawRow{"Action": action, "Amount": amount})
			assert.LessOrEqual(t, tx.Amount, 0.0, "action %q amount %q", action, amount)
		}
		for _, action := range sellActions {
			tx := NormalizeRow(RawRow{"Action": action, "Amount": amount})
			assert.GreaterOrEqual(t, tx.Amount, 0.0, "action %q amount %q", action, amount)
		}
	}
}

func TestApplySign(t *testing.T) {
	tests := []struct {
		action string
		raw    float64
		want   float64
	}{
		{action: "Deposit", raw: -500, want: 500},
		{action: "Withdrawal", raw: 500, want: -500},
		{action: "Dividend (Ordinary)", raw: -1.2, want: 1.2},
		{action: "Interest on cash", raw: 0.3, want: 0.3},
		{action: "Custody fee", raw: 4, want: -4},
		{action: "Currency conversion", raw: -7, want: -7},
		{action: "", raw: 12, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.InDelta(t, tt.want, ApplySign(DefaultSignRules, tt.action, tt.raw), 1e-9)
		})
	}
}

func TestNormalizer_WithSignRules(t *testing.T) {
	rules := []SignRule{{Contains: "deposit", Sign: -1}}
	n := NewNormalizer().WithSignRules(rules)

	tx := n.Normalize(RawRow{"Action": "Deposit", "Amount": "100"})
	assert.InDelta(t, -100, tx.Amount, 1e-9)

	tx = NormalizeRow(RawRow{"Action": "Deposit", "Amount": "100"})
	assert.InDelta(t, 100, tx.Amount, 1e-9)
}

func TestNormalizer_NormalizeRowsNumbersRows(t *testing.T) {
	txs := NewNormalizer().NormalizeRows([]RawRow{
		{"Action": "Deposit", "Amount": "1"},
		{"Action": "Deposit", "Amount": "2"},
	})

	require.Len(t, txs, 2)
	assert.Equal(t, 1, txs[0].RowNumber)
	assert.Equal(t, 2, txs[1].RowNumber)
}
