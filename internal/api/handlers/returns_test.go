package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/testutil"
)

func TestReturnsHandler_XIRR(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewReturnsHandler(testutil.NewTestReturnsService(t, db), "EUR")

	t.Run("computes explicit flows", func(t *testing.T) {
		body := `{"flows":[{"date":"2023-01-01","amount":-1000},{"date":"2024-01-01","amount":1100}]}`
		w := httptest.NewRecorder()
		handler.XIRR(w, httptest.NewRequest(http.MethodPost, "/api/returns/xirr", strings.NewReader(body)))

		var result model.ReturnResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)
		if w.Code != http.StatusOK || result.Status != model.ReturnDetermined {
			t.Fatalf("Expected a determined rate, got %d %+v", w.Code, result)
		}
		if result.Rate < 0.09 || result.Rate > 0.11 {
			t.Errorf("Expected a rate near 10%%, got %v", result.Rate)
		}
	})

	t.Run("degenerate flows are undetermined, not an error", func(t *testing.T) {
		body := `{"flows":[{"date":"2023-01-01","amount":-1000}]}`
		w := httptest.NewRecorder()
		handler.XIRR(w, httptest.NewRequest(http.MethodPost, "/api/returns/xirr", strings.NewReader(body)))

		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"undetermined"`) {
			t.Errorf("Expected 200 undetermined, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid bodies are 400", func(t *testing.T) {
		for _, body := range []string{`{`, `{"flows":[]}`, `{"flows":[{"date":"yesterday","amount":1}]}`} {
			w := httptest.NewRecorder()
			handler.XIRR(w, httptest.NewRequest(http.MethodPost, "/api/returns/xirr", strings.NewReader(body)))
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", body, w.Code)
			}
		}
	})
}

func TestReturnsHandler_TWR(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewReturnsHandler(testutil.NewTestReturnsService(t, db), "EUR")

	body := `{"points":[{"date":"2024-01-01","equity":1000},{"date":"2024-01-02","equity":2100}],"flows":{"2024-01-02":1000}}`
	w := httptest.NewRecorder()
	handler.TWR(w, httptest.NewRequest(http.MethodPost, "/api/returns/twr", strings.NewReader(body)))

	var result model.ReturnResult
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&result)
	if w.Code != http.StatusOK || result.Rate < 0.0999 || result.Rate > 0.1001 {
		t.Errorf("Expected 10%%, got %d %+v", w.Code, result)
	}
}

func TestReturnsHandler_PortfolioXIRR(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewReturnsHandler(testutil.NewTestReturnsService(t, db), "eur")
	testutil.NewTransaction().Deposit(1000).WithTime(time.Now().AddDate(-1, 0, 0)).Build(t, db)

	w := httptest.NewRecorder()
	handler.PortfolioXIRR(w, httptest.NewRequest(http.MethodGet, "/api/returns/xirr", nil))

	var result model.PortfolioReturn
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&result)
	if w.Code != http.StatusOK || result.Base != "EUR" {
		t.Fatalf("Expected default base EUR, got %d %+v", w.Code, result)
	}
	if result.TerminalValue != 1000 || len(result.Flows) != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
}
