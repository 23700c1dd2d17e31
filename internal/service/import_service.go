package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/ibkr"
	"github.com/ndewijer/portfolio-insights/internal/importer"
	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/repository"
)

// Import sources accepted by ImportService.
const (
	SourceCSV        = "csv"
	SourceTrading212 = "trading212"
	SourceIBKR       = "ibkr"
)

var csvSources = map[string]bool{
	SourceCSV:        true,
	SourceTrading212: true,
}

// ImportService turns uploaded broker exports into stored, normalized
// transactions grouped in import batches.
type ImportService struct {
	db              *sql.DB
	importRepo      *repository.ImportRepository
	transactionRepo *repository.TransactionRepository
	normalizer      *importer.Normalizer
	logger          zerolog.Logger
	now             func() time.Time
}

// NewImportService creates a new ImportService with the provided repository dependencies.
func NewImportService(
	db *sql.DB,
	importRepo *repository.ImportRepository,
	transactionRepo *repository.TransactionRepository,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		db:              db,
		importRepo:      importRepo,
		transactionRepo: transactionRepo,
		normalizer:      importer.NewNormalizer(),
		logger:          logger.With().Str("component", "import").Logger(),
		now:             time.Now,
	}
}

// WithClock sets the time source used to stamp new batches.
func (s *ImportService) WithClock(now func() time.Time) *ImportService {
	s.now = now
	return s
}

// ImportCSV reads a broker CSV export and stores its rows as one batch.
//
// Parameters:
//   - ctx: Context for the database transaction
//   - source: Export flavour ("csv" or "trading212"); empty selects "csv"
//   - fileName: Original file name, kept for display
//   - r: CSV content
//
// Returns:
//   - model.ImportBatch: The stored batch
//   - error: apperrors.ErrUnsupportedSource, apperrors.ErrInvalidCSV,
//     apperrors.ErrEmptyImport, or a wrapped database error
func (s *ImportService) ImportCSV(ctx context.Context, source, fileName string, r io.Reader) (model.ImportBatch, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		source = SourceCSV
	}
	if !csvSources[source] {
		return model.ImportBatch{}, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedSource, source)
	}

	rows, err := importer.ReadCSV(r)
	if err != nil {
		if errors.Is(err, importer.ErrNoHeader) {
			return model.ImportBatch{}, apperrors.ErrEmptyImport
		}
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSV, err)
	}

	return s.importRows(ctx, source, fileName, rows)
}

// ImportFlexReport reads an IBKR Flex Query XML report and stores its trades
// and cash transactions as one batch.
func (s *ImportService) ImportFlexReport(ctx context.Context, fileName string, r io.Reader) (model.ImportBatch, error) {
	report, err := ibkr.ParseFlexReport(r)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidFlexReport, err)
	}
	return s.importRows(ctx, SourceIBKR, fileName, report.Rows())
}

func (s *ImportService) importRows(ctx context.Context, source, fileName string, rows []importer.RawRow) (model.ImportBatch, error) {
	if len(rows) == 0 {
		return model.ImportBatch{}, apperrors.ErrEmptyImport
	}

	batch := model.ImportBatch{
		ID:         uuid.New().String(),
		Source:     source,
		FileName:   fileName,
		RowCount:   len(rows),
		ImportedAt: s.now().UTC(),
	}

	txs := s.normalizer.NormalizeRows(rows)
	untimed := 0
	for i := range txs {
		txs[i].ID = uuid.New().String()
		txs[i].BatchID = batch.ID
		if txs[i].Time == nil {
			untimed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.importRepo.WithTx(tx).InsertBatch(ctx, batch); err != nil {
		return model.ImportBatch{}, err
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransactions(ctx, txs); err != nil {
		return model.ImportBatch{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to commit import: %w", err)
	}

	event := s.logger.Info()
	if untimed > 0 {
		event = s.logger.Warn().Int("untimed_rows", untimed)
	}
	event.
		Str("batch_id", batch.ID).
		Str("source", source).
		Str("file", fileName).
		Int("rows", batch.RowCount).
		Msg("Import stored")

	return batch, nil
}

// GetBatches returns every import batch, most recent first.
func (s *ImportService) GetBatches(ctx context.Context) ([]model.ImportBatch, error) {
	return s.importRepo.GetBatches(ctx)
}

// GetBatch returns one import batch.
func (s *ImportService) GetBatch(ctx context.Context, id string) (model.ImportBatch, error) {
	return s.importRepo.GetBatch(ctx, id)
}

// DeleteBatch removes a batch together with its transactions.
func (s *ImportService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.importRepo.DeleteBatch(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("batch_id", id).Msg("Import deleted")
	return nil
}
