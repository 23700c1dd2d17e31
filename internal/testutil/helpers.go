package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/fx"
	"github.com/ndewijer/portfolio-insights/internal/repository"
	"github.com/ndewijer/portfolio-insights/internal/service"
)

// NewTestImportService returns an ImportService backed by db.
func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		db,
		repository.NewImportRepository(db),
		repository.NewTransactionRepository(db),
		zerolog.Nop(),
	)
}

// NewTestTransactionService returns a TransactionService backed by db.
func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(repository.NewTransactionRepository(db))
}

// NewTestFxProvider returns a rate cache in front of client.
func NewTestFxProvider(t *testing.T, client fx.Client) *fx.Provider {
	t.Helper()

	return fx.NewProvider(client, fx.WithLogger(zerolog.Nop()))
}

// NewTestPortfolioService returns a PortfolioService backed by db and the
// default mock rates.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return NewTestPortfolioServiceWithFx(t, db, NewMockFxClient())
}

// NewTestPortfolioServiceWithFx returns a PortfolioService using a custom rate client.
func NewTestPortfolioServiceWithFx(t *testing.T, db *sql.DB, client fx.Client) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewTransactionRepository(db),
		NewTestFxProvider(t, client),
		zerolog.Nop(),
	)
}

// NewTestReturnsService returns a ReturnsService backed by db and the default mock rates.
func NewTestReturnsService(t *testing.T, db *sql.DB) *service.ReturnsService {
	t.Helper()

	return service.NewReturnsService(
		repository.NewTransactionRepository(db),
		NewTestFxProvider(t, NewMockFxClient()),
		zerolog.Nop(),
	)
}

// NewTestFxService returns an FxService warming the given bases.
func NewTestFxService(t *testing.T, client fx.Client, warm ...string) *service.FxService {
	t.Helper()

	return service.NewFxService(NewTestFxProvider(t, client), warm, zerolog.Nop())
}

// NewTestSystemService returns a SystemService backed by db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a random UUID string.
func MakeID() string {
	return uuid.New().String()
}

// MakeFileName generates a unique CSV file name for testing.
//
// Example usage:
//
//	name := testutil.MakeFileName("export")  // "export_a8x3k2.csv"
func MakeFileName(base string) string {
	return fmt.Sprintf("%s_%s.csv", base, randomAlphanumeric(6))
}

func randomAlphanumeric(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		//nolint:gosec // G404: Test data only
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}
