package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/service"
)

// PortfolioHandler handles HTTP requests for positions and allocation.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Positions handles GET requests for the open positions rebuilt from every
// stored transaction.
//
// Endpoint: GET /api/portfolio/positions
// Response: 200 OK with array of model.Position
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.GetPositions(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// Allocation handles GET requests for the allocation report.
// Without a base currency rows are weighted within their own currency; with
// one every row is converted and weighted against a single total.
//
// Endpoint: GET /api/portfolio/allocation?base=EUR
// Response: 200 OK with model.AllocationReport
// Error: 400 Bad Request if base is not a currency (validated by middleware)
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	var (
		report model.AllocationReport
		err    error
	)

	if base := baseParam(r, ""); base != "" {
		report, err = h.portfolioService.GetAllocationInBase(r.Context(), base)
	} else {
		report, err = h.portfolioService.GetAllocation(r.Context())
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeAllocation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
