package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-insights/internal/api/request"
	"github.com/ndewijer/portfolio-insights/internal/validation"
)

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, validation.ValidateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.ErrorIs(t, validation.ValidateUUID("not-a-uuid"), validation.ErrInvalidUUID)
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"EUR", "usd", " gbp ", "JPY", "CHF"} {
		assert.NoError(t, validation.ValidateCurrency(code), code)
	}
	for _, code := range []string{"", "EU", "EURO", "XYZ", "12€"} {
		assert.ErrorIs(t, validation.ValidateCurrency(code), validation.ErrInvalidCurrency, code)
	}
}

func TestValidateXIRRRequest(t *testing.T) {
	t.Run("converts valid flows", func(t *testing.T) {
		flows, err := validation.ValidateXIRRRequest(request.XIRRRequest{Flows: []request.CashFlowRequest{
			{Date: "2023-01-01", Amount: -100},
			{Date: "2024-01-01", Amount: 110},
		}})

		require.NoError(t, err)
		require.Len(t, flows, 2)
		assert.Equal(t, 2024, flows[1].Date.Year())
		assert.Equal(t, 110.0, flows[1].Amount)
	})

	t.Run("reports every bad field", func(t *testing.T) {
		_, err := validation.ValidateXIRRRequest(request.XIRRRequest{Flows: []request.CashFlowRequest{
			{Date: "01/02/2023", Amount: -100},
			{Date: "2024-01-01", Amount: 5},
			{Date: "", Amount: 1},
		}})

		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
		assert.Contains(t, verr.Fields, "flows[0].date")
		assert.Contains(t, verr.Fields, "flows[2].date")
	})

	t.Run("empty request is invalid", func(t *testing.T) {
		_, err := validation.ValidateXIRRRequest(request.XIRRRequest{})
		assert.ErrorContains(t, err, "flows")
	})
}

func TestValidateTWRRequest(t *testing.T) {
	t.Run("converts points and flows", func(t *testing.T) {
		points, flows, err := validation.ValidateTWRRequest(request.TWRRequest{
			Points: []request.EquityPointRequest{{Date: "2024-01-01", Equity: 100}, {Date: "2024-01-02", Equity: 150}},
			Flows:  map[string]float64{"2024-01-02": 40},
		})

		require.NoError(t, err)
		assert.Len(t, points, 2)
		assert.Equal(t, map[string]float64{"2024-01-02": 40}, flows)
	})

	t.Run("rejects bad flow keys", func(t *testing.T) {
		_, _, err := validation.ValidateTWRRequest(request.TWRRequest{
			Points: []request.EquityPointRequest{{Date: "2024-01-01", Equity: 100}},
			Flows:  map[string]float64{"yesterday": 40},
		})
		assert.ErrorContains(t, err, "flows.yesterday")
	})
}
