package model

import (
	"strings"
	"time"
)

// Transaction is one normalized broker export row.
// Amount, Fees and Taxes are always defined; Price and Shares are nil for rows
// that are not trades.
type Transaction struct {
	ID               string     `json:"id,omitempty"`
	BatchID          string     `json:"batchId,omitempty"`
	RowNumber        int        `json:"rowNumber,omitempty"`
	Time             *time.Time `json:"time,omitempty"`
	Action           string     `json:"action"`
	CurrencyOfAmount string     `json:"currencyOfAmount"`
	CurrencyOfPrice  string     `json:"currencyOfPrice"`
	Amount           float64    `json:"amount"`
	Fees             float64    `json:"fees"`
	Taxes            float64    `json:"taxes"`
	Price            *float64   `json:"price,omitempty"`
	Shares           *float64   `json:"shares,omitempty"`
	Ticker           string     `json:"ticker,omitempty"`
	Name             string     `json:"name,omitempty"`
	SplitRatio       *float64   `json:"splitRatio,omitempty"`
}

// Key identifies the instrument of the transaction: the ticker when present,
// the name otherwise.
func (t Transaction) Key() string {
	if ticker := strings.TrimSpace(t.Ticker); ticker != "" {
		return ticker
	}
	return strings.TrimSpace(t.Name)
}

// IsTrade reports whether the row carries a share count.
func (t Transaction) IsTrade() bool {
	return t.Shares != nil
}

// ImportBatch records one uploaded broker export.
type ImportBatch struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	FileName   string    `json:"fileName"`
	RowCount   int       `json:"rowCount"`
	ImportedAt time.Time `json:"importedAt"`
}
