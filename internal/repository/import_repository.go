package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// ImportRepository provides data access methods for the import_batch table.
type ImportRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewImportRepository creates a new ImportRepository with the provided database connection.
func NewImportRepository(db *sql.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// WithTx returns a new ImportRepository scoped to the provided transaction.
func (r *ImportRepository) WithTx(tx *sql.Tx) *ImportRepository {
	return &ImportRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ImportRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertBatch stores a new import batch record.
func (r *ImportRepository) InsertBatch(ctx context.Context, b model.ImportBatch) error {
	query := `
		INSERT INTO import_batch (id, source, file_name, row_count, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		b.ID,
		b.Source,
		b.FileName,
		b.RowCount,
		FormatTime(b.ImportedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import batch: %w", err)
	}
	return nil
}

// GetBatches returns every import batch, most recent first.
// Returns an empty slice if no batches exist.
func (r *ImportRepository) GetBatches(ctx context.Context) ([]model.ImportBatch, error) {
	query := `
		SELECT id, source, file_name, row_count, imported_at
		FROM import_batch
		ORDER BY imported_at DESC, id ASC
	`
	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_batch table: %w", err)
	}
	defer rows.Close()

	batches := []model.ImportBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import_batch table: %w", err)
	}
	return batches, nil
}

// GetBatch returns one import batch.
//
// Returns:
//   - apperrors.ErrImportBatchNotFound when no batch has the given ID
func (r *ImportRepository) GetBatch(ctx context.Context, id string) (model.ImportBatch, error) {
	query := `
		SELECT id, source, file_name, row_count, imported_at
		FROM import_batch
		WHERE id = ?
	`
	b, err := scanBatch(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportBatch{}, apperrors.ErrImportBatchNotFound
	}
	return b, err
}

// DeleteBatch removes a batch; its transactions are removed by the foreign key cascade.
func (r *ImportRepository) DeleteBatch(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM import_batch WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete import batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrImportBatchNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (model.ImportBatch, error) {
	var b model.ImportBatch
	var importedAt string
	if err := row.Scan(&b.ID, &b.Source, &b.FileName, &b.RowCount, &importedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("failed to scan import batch: %w", err)
	}
	t, err := ParseTime(importedAt)
	if err != nil {
		return b, err
	}
	b.ImportedAt = t
	return b, nil
}
