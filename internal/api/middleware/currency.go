package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/validation"
)

// ValidateCurrencyMiddleware validates the base URL parameter, and the base
// query parameter when one is given, as ISO 4217 currency codes.
// Returns 400 Bad Request on an unknown code.
func ValidateCurrencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		codes := []string{chi.URLParam(r, "base"), r.URL.Query().Get("base")}
		for _, code := range codes {
			if code == "" {
				continue
			}
			if err := validation.ValidateCurrency(code); err != nil {
				response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCurrency.Error(), err.Error())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
