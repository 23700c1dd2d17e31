package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// TransactionFilter narrows GetTransactions. Zero values disable a filter.
type TransactionFilter struct {
	BatchID string
	From    time.Time // inclusive
	To      time.Time // inclusive
}

// InsertTransactions stores normalized transactions. Every transaction must
// already carry its ID and BatchID.
func (r *TransactionRepository) InsertTransactions(ctx context.Context, txs []model.Transaction) error {
	query := `
		INSERT INTO "transaction" (
			id, batch_id, row_number, time, action, currency_of_amount, currency_of_price,
			amount, fees, taxes, price, shares, ticker, name, split_ratio
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	q := r.getQuerier()
	for _, t := range txs {
		var at sql.NullString
		if t.Time != nil {
			at = sql.NullString{String: FormatTime(*t.Time), Valid: true}
		}
		_, err := q.ExecContext(ctx, query,
			t.ID,
			t.BatchID,
			t.RowNumber,
			at,
			t.Action,
			t.CurrencyOfAmount,
			t.CurrencyOfPrice,
			t.Amount,
			t.Fees,
			t.Taxes,
			nullFloat(t.Price),
			nullFloat(t.Shares),
			t.Ticker,
			t.Name,
			nullFloat(t.SplitRatio),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction row %d: %w", t.RowNumber, err)
		}
	}
	return nil
}

// GetTransactions returns the stored transactions matching filter in import
// order: by batch import time, then by row number. Untimed rows are excluded
// by a date range filter.
// Returns an empty slice if nothing matches.
func (r *TransactionRepository) GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var where []string
	var args []any

	if filter.BatchID != "" {
		where = append(where, "t.batch_id = ?")
		args = append(args, filter.BatchID)
	}
	if !filter.From.IsZero() {
		where = append(where, "t.time >= ?")
		args = append(args, FormatTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "t.time <= ?")
		args = append(args, FormatTime(filter.To))
	}

	query := `
		SELECT t.id, t.batch_id, t.row_number, t.time, t.action, t.currency_of_amount, t.currency_of_price,
			t.amount, t.fees, t.taxes, t.price, t.shares, t.ticker, t.name, t.split_ratio
		FROM "transaction" t
		INNER JOIN import_batch b ON b.id = t.batch_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.imported_at ASC, b.id ASC, t.row_number ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var at sql.NullString
		var price, shares, split sql.NullFloat64

		err := rows.Scan(
			&t.ID,
			&t.BatchID,
			&t.RowNumber,
			&at,
			&t.Action,
			&t.CurrencyOfAmount,
			&t.CurrencyOfPrice,
			&t.Amount,
			&t.Fees,
			&t.Taxes,
			&price,
			&shares,
			&t.Ticker,
			&t.Name,
			&split,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		if at.Valid {
			parsed, err := ParseTime(at.String)
			if err != nil {
				return nil, err
			}
			t.Time = &parsed
		}
		t.Price = floatPtr(price)
		t.Shares = floatPtr(shares)
		t.SplitRatio = floatPtr(split)

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}
