package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-insights/internal/api/request"
	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/service"
	"github.com/ndewijer/portfolio-insights/internal/validation"
)

// ReturnsHandler handles HTTP requests for TWR and XIRR calculations.
type ReturnsHandler struct {
	returnsService *service.ReturnsService
	defaultBase    string
}

// NewReturnsHandler creates a new ReturnsHandler.
//
// Parameters:
//   - returnsService: The return calculator service
//   - defaultBase: Base currency used when a request names none
func NewReturnsHandler(returnsService *service.ReturnsService, defaultBase string) *ReturnsHandler {
	return &ReturnsHandler{
		returnsService: returnsService,
		defaultBase:    defaultBase,
	}
}

// PortfolioXIRR handles GET requests for the money-weighted return of the
// stored history. An undetermined rate is a 200 response with status
// "undetermined", not an error.
//
// Endpoint: GET /api/returns/xirr?base=EUR
// Response: 200 OK with model.PortfolioReturn
// Error: 400 Bad Request if base is not a currency (validated by middleware)
// Error: 500 Internal Server Error if computation fails
func (h *ReturnsHandler) PortfolioXIRR(w http.ResponseWriter, r *http.Request) {
	result, err := h.returnsService.PortfolioXIRR(r.Context(), baseParam(r, h.defaultBase))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeReturn.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// XIRR handles POST requests computing the XIRR of explicit cash flows.
//
// Endpoint: POST /api/returns/xirr
// Request Body: request.XIRRRequest
// Response: 200 OK with model.ReturnResult
// Error: 400 Bad Request if the body is invalid
func (h *ReturnsHandler) XIRR(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.XIRRRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	flows, err := validation.ValidateXIRRRequest(req)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, h.returnsService.ComputeXIRR(flows))
}

// TWR handles POST requests computing the time-weighted return of an equity series.
//
// Endpoint: POST /api/returns/twr
// Request Body: request.TWRRequest
// Response: 200 OK with model.ReturnResult
// Error: 400 Bad Request if the body is invalid
func (h *ReturnsHandler) TWR(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TWRRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	points, flows, err := validation.ValidateTWRRequest(req)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, h.returnsService.ComputeTWR(points, flows))
}
