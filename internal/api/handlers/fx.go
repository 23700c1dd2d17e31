package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/service"
)

// FxHandler exposes the exchange-rate cache.
type FxHandler struct {
	fxService *service.FxService
}

// NewFxHandler creates a new FxHandler.
func NewFxHandler(fxService *service.FxService) *FxHandler {
	return &FxHandler{fxService: fxService}
}

// Rates returns the cached snapshot for a base currency, fetching it on a miss.
// A snapshot with fallback=true means the rates were unavailable.
//
// Endpoint: GET /api/fx/{base}
// Response: 200 OK with model.FxSnapshot
// Error: 400 Bad Request if base is not a currency (validated by middleware)
func (h *FxHandler) Rates(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(chi.URLParam(r, "base"))
	response.RespondJSON(w, http.StatusOK, h.fxService.GetRates(r.Context(), base))
}

// Invalidate drops the cached snapshot so the next request refetches it.
//
// Endpoint: DELETE /api/fx/{base}
// Response: 204 No Content
func (h *FxHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	h.fxService.Invalidate(chi.URLParam(r, "base"))
	response.RespondJSON(w, http.StatusNoContent, nil)
}
