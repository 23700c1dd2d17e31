package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/repository"
)

// DefaultTime is the time given to transactions built without WithTime.
var DefaultTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// ImportBatchBuilder provides a fluent interface for creating test import batches.
//
// Example usage:
//
//	batch := testutil.NewImportBatch().WithSource("trading212").Build(t, db)
type ImportBatchBuilder struct {
	ID         string
	Source     string
	FileName   string
	RowCount   int
	ImportedAt time.Time
}

// NewImportBatch creates an ImportBatchBuilder with sensible defaults.
func NewImportBatch() *ImportBatchBuilder {
	return &ImportBatchBuilder{
		ID:         MakeID(),
		Source:     "csv",
		FileName:   MakeFileName("export"),
		ImportedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *ImportBatchBuilder) WithID(id string) *ImportBatchBuilder {
	b.ID = id
	return b
}

// WithSource sets the import source.
func (b *ImportBatchBuilder) WithSource(source string) *ImportBatchBuilder {
	b.Source = source
	return b
}

// WithFileName sets the uploaded file name.
func (b *ImportBatchBuilder) WithFileName(name string) *ImportBatchBuilder {
	b.FileName = name
	return b
}

// WithRowCount sets the recorded row count.
func (b *ImportBatchBuilder) WithRowCount(n int) *ImportBatchBuilder {
	b.RowCount = n
	return b
}

// WithImportedAt sets the import time.
func (b *ImportBatchBuilder) WithImportedAt(at time.Time) *ImportBatchBuilder {
	b.ImportedAt = at
	return b
}

// Value returns the batch without touching a database.
func (b *ImportBatchBuilder) Value() model.ImportBatch {
	return model.ImportBatch{
		ID:         b.ID,
		Source:     b.Source,
		FileName:   b.FileName,
		RowCount:   b.RowCount,
		ImportedAt: b.ImportedAt,
	}
}

// Build inserts the batch into the database and returns it.
func (b *ImportBatchBuilder) Build(t *testing.T, db *sql.DB) model.ImportBatch {
	t.Helper()

	batch := b.Value()
	if err := repository.NewImportRepository(db).InsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("Failed to create test import batch: %v", err)
	}
	return batch
}

// TransactionBuilder provides a fluent interface for creating normalized
// transactions. Amounts follow the account-cash sign: buys and withdrawals
// are negative, sells and deposits positive.
//
// Example usage:
//
//	// In-memory value for pure functions
//	tx := testutil.NewTransaction().Buy("AAPL", 10, 150).WithCurrency("USD").Value()
//
//	// Stored in its own import batch
//	tx := testutil.NewTransaction().Deposit(1000).Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder for an empty EUR row at DefaultTime.
func NewTransaction() *TransactionBuilder {
	at := DefaultTime
	return &TransactionBuilder{
		tx: model.Transaction{
			ID:               MakeID(),
			Time:             &at,
			CurrencyOfAmount: "EUR",
			CurrencyOfPrice:  "EUR",
		},
	}
}

// Buy makes the row a market buy of shares at price.
func (b *TransactionBuilder) Buy(ticker string, shares, price float64) *TransactionBuilder {
	b.trade("Market buy", ticker, shares, price)
	b.tx.Amount = -shares * price
	return b
}

// Sell makes the row a market sell of shares at price.
func (b *TransactionBuilder) Sell(ticker string, shares, price float64) *TransactionBuilder {
	b.trade("Market sell", ticker, shares, price)
	b.tx.Amount = shares * price
	return b
}

// Dividend makes the row a cash dividend paid on ticker.
func (b *TransactionBuilder) Dividend(ticker string, amount float64) *TransactionBuilder {
	b.tx.Action = "Dividend (Ordinary)"
	b.tx.Ticker = ticker
	b.tx.Amount = amount
	return b
}

// Deposit makes the row a cash deposit.
func (b *TransactionBuilder) Deposit(amount float64) *TransactionBuilder {
	b.tx.Action = "Deposit"
	b.tx.Amount = amount
	return b
}

// Withdrawal makes the row a cash withdrawal.
func (b *TransactionBuilder) Withdrawal(amount float64) *TransactionBuilder {
	b.tx.Action = "Withdrawal"
	b.tx.Amount = -amount
	return b
}

// Split makes the row a stock split multiplying the held shares by ratio.
func (b *TransactionBuilder) Split(ticker string, ratio float64) *TransactionBuilder {
	b.tx.Action = "Stock split"
	b.tx.Ticker = ticker
	b.tx.Amount = 0
	b.tx.SplitRatio = &ratio
	return b
}

// WithTime sets the transaction time.
func (b *TransactionBuilder) WithTime(at time.Time) *TransactionBuilder {
	b.tx.Time = &at
	return b
}

// WithoutTime clears the transaction time.
func (b *TransactionBuilder) WithoutTime() *TransactionBuilder {
	b.tx.Time = nil
	return b
}

// WithCurrency sets both the amount and the price currency.
func (b *TransactionBuilder) WithCurrency(ccy string) *TransactionBuilder {
	ccy = strings.ToUpper(ccy)
	b.tx.CurrencyOfAmount = ccy
	b.tx.CurrencyOfPrice = ccy
	return b
}

// WithName sets the instrument name.
func (b *TransactionBuilder) WithName(name string) *TransactionBuilder {
	b.tx.Name = name
	return b
}

// WithFees sets the fees.
func (b *TransactionBuilder) WithFees(fees float64) *TransactionBuilder {
	b.tx.Fees = fees
	return b
}

// WithTaxes sets the taxes.
func (b *TransactionBuilder) WithTaxes(taxes float64) *TransactionBuilder {
	b.tx.Taxes = taxes
	return b
}

// Value returns the transaction without touching a database.
func (b *TransactionBuilder) Value() model.Transaction {
	return b.tx
}

// Build stores the transaction in a fresh import batch and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	batch := NewImportBatch().WithRowCount(1).Build(t, db)
	return b.BuildInBatch(t, db, batch.ID)
}

// BuildInBatch stores the transaction in an existing import batch.
func (b *TransactionBuilder) BuildInBatch(t *testing.T, db *sql.DB, batchID string) model.Transaction {
	t.Helper()

	tx := b.tx
	tx.BatchID = batchID
	if tx.RowNumber == 0 {
		tx.RowNumber = CountRows(t, db, `"transaction"`) + 1
	}

	repo := repository.NewTransactionRepository(db)
	if err := repo.InsertTransactions(context.Background(), []model.Transaction{tx}); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}
	return tx
}

func (b *TransactionBuilder) trade(action, ticker string, shares, price float64) {
	b.tx.Action = action
	b.tx.Ticker = ticker
	b.tx.Shares = &shares
	b.tx.Price = &price
}
