package service_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/testutil"
)

func seedMixedHistory(t *testing.T, db *sql.DB) {
	t.Helper()

	batch := testutil.NewImportBatch().Build(t, db)
	at := func(d int) time.Time { return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC) }

	testutil.NewTransaction().Deposit(1000).WithTime(at(1)).BuildInBatch(t, db, batch.ID)
	testutil.NewTransaction().Buy("ASML", 5, 100).WithTime(at(2)).BuildInBatch(t, db, batch.ID)
	testutil.NewTransaction().Deposit(500).WithCurrency("USD").WithTime(at(1)).BuildInBatch(t, db, batch.ID)
	testutil.NewTransaction().Buy("MSFT", 2, 100).WithCurrency("USD").WithTime(at(3)).BuildInBatch(t, db, batch.ID)
}

// TestPortfolioService_GetPositions tests position reconstruction from stored rows.
func TestPortfolioService_GetPositions(t *testing.T) {
	t.Run("returns empty slice when no transactions exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		positions, err := svc.GetPositions(context.Background())
		if err != nil {
			t.Fatalf("GetPositions() returned unexpected error: %v", err)
		}
		if len(positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(positions))
		}
	})

	t.Run("folds every batch into open positions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		seedMixedHistory(t, db)
		testutil.NewTransaction().Sell("ASML", 5, 110).
			WithTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)).Build(t, db)

		positions, err := svc.GetPositions(context.Background())
		if err != nil {
			t.Fatalf("GetPositions() returned unexpected error: %v", err)
		}
		if len(positions) != 1 {
			t.Fatalf("Expected 1 open position, got %+v", positions)
		}
		if positions[0].Key != "MSFT" || positions[0].Shares != 2 {
			t.Errorf("Unexpected position: %+v", positions[0])
		}
	})
}

// TestPortfolioService_GetAllocation tests the per-currency allocation report.
//
// WHY: The report is what the user reads as "where is my money". Weights must
// close to 100% within every currency and totals must match the rows.
func TestPortfolioService_GetAllocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	seedMixedHistory(t, db)

	report, err := svc.GetAllocation(context.Background())
	if err != nil {
		t.Fatalf("GetAllocation() returned unexpected error: %v", err)
	}

	if len(report.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(report.Rows))
	}
	if report.Totals["EUR"] != 1000 || report.Totals["USD"] != 500 {
		t.Errorf("Unexpected totals: %v", report.Totals)
	}
	if !report.WeightCheck.OK || len(report.WeightCheck.Deviations) != 0 {
		t.Errorf("Expected weights to close, got %+v", report.WeightCheck)
	}
	if report.Base != "" {
		t.Errorf("Expected no base on per-currency report, got %q", report.Base)
	}
}

func TestPortfolioService_GetAllocationInBase(t *testing.T) {
	t.Run("converts into base with fetched rates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		seedMixedHistory(t, db)

		report, err := svc.GetAllocationInBase(context.Background(), "eur")
		if err != nil {
			t.Fatalf("GetAllocationInBase() returned unexpected error: %v", err)
		}

		if report.Base != "EUR" || report.FxDate != "2024-05-03" || report.FxFallback {
			t.Errorf("Unexpected report header: base=%q date=%q fallback=%v", report.Base, report.FxDate, report.FxFallback)
		}
		if report.Totals["EUR"] != 1400 {
			t.Errorf("Expected base total 1400, got %v", report.Totals["EUR"])
		}
		for _, row := range report.Rows {
			if row.Currency != "EUR" {
				t.Errorf("Expected every row in EUR, got %+v", row)
			}
			if row.Label == "MSFT" && (row.Value != 160 || row.NativeCurrency != "USD") {
				t.Errorf("Unexpected MSFT row: %+v", row)
			}
		}
		if !report.WeightCheck.OK {
			t.Errorf("Expected weights to close, got %+v", report.WeightCheck)
		}
	})

	t.Run("unavailable rates degrade to face value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockFxClient().WithError(errors.New("upstream down"))
		svc := testutil.NewTestPortfolioServiceWithFx(t, db, client)
		seedMixedHistory(t, db)

		report, err := svc.GetAllocationInBase(context.Background(), "EUR")
		if err != nil {
			t.Fatalf("GetAllocationInBase() returned unexpected error: %v", err)
		}

		if !report.FxFallback {
			t.Error("Expected FxFallback on the report")
		}
		if report.Totals["EUR"] != 1500 {
			t.Errorf("Expected face-value total 1500, got %v", report.Totals["EUR"])
		}
		fallbackRows := 0
		for _, row := range report.Rows {
			if row.FxFallback {
				fallbackRows++
			}
		}
		if fallbackRows != 2 {
			t.Errorf("Expected the 2 USD rows to be flagged, got %d", fallbackRows)
		}
	})

	t.Run("rounds values to cents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewTransaction().Buy("X", 3, 33.333).WithCurrency("USD").Build(t, db)
		testutil.NewTransaction().Deposit(100).WithCurrency("USD").Build(t, db)

		report, err := svc.GetAllocationInBase(context.Background(), "EUR")
		if err != nil {
			t.Fatalf("GetAllocationInBase() returned unexpected error: %v", err)
		}
		for _, row := range report.Rows {
			if math.Abs(row.Value*100-math.Round(row.Value*100)) > 1e-6 {
				t.Errorf("Expected value rounded to cents, got %v", row.Value)
			}
		}
	})
}
