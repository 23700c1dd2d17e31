package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/testutil"
)

func TestTransactionHandler_Transactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	jan := testutil.NewTransaction().Deposit(100).WithTime(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)).Build(t, db)
	testutil.NewTransaction().Deposit(200).WithTime(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).Build(t, db)
	testutil.NewTransaction().Deposit(300).WithoutTime().Build(t, db)

	get := func(t *testing.T, query map[string]string) ([]model.Transaction, int) {
		t.Helper()
		w := httptest.NewRecorder()
		handler.Transactions(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions", query))
		var txs []model.Transaction
		if w.Code == http.StatusOK {
			if err := json.NewDecoder(w.Body).Decode(&txs); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
		}
		return txs, w.Code
	}

	t.Run("returns every row", func(t *testing.T) {
		txs, code := get(t, nil)
		if code != http.StatusOK || len(txs) != 3 {
			t.Errorf("Expected 3 rows, got %d (%d)", len(txs), code)
		}
	})

	t.Run("filters by batch", func(t *testing.T) {
		txs, _ := get(t, map[string]string{"batchId": jan.BatchID})
		if len(txs) != 1 || txs[0].ID != jan.ID {
			t.Errorf("Expected only the January row, got %+v", txs)
		}
	})

	t.Run("to date is inclusive of the whole day", func(t *testing.T) {
		txs, _ := get(t, map[string]string{"from": "2024-01-01", "to": "2024-01-31"})
		if len(txs) != 1 || txs[0].Amount != 100 {
			t.Errorf("Expected only the January row, got %+v", txs)
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		for _, query := range []map[string]string{
			{"batchId": "nope"},
			{"from": "01-01-2024"},
			{"from": "2024-02-01", "to": "2024-01-01"},
		} {
			if _, code := get(t, query); code != http.StatusBadRequest {
				t.Errorf("%v: expected 400, got %d", query, code)
			}
		}
	})
}
