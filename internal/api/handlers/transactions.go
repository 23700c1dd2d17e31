package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/repository"
	"github.com/ndewijer/portfolio-insights/internal/service"
	"github.com/ndewijer/portfolio-insights/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions handles GET requests for the stored, normalized transactions in
// import order.
//
// Endpoint: GET /api/transactions
// Query Parameters:
//   - batchId: Only rows of this import batch (optional)
//   - from, to: Inclusive YYYY-MM-DD date range; excludes untimed rows (optional)
//
// Response: 200 OK with array of model.Transaction
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	transactions, err := h.transactionService.GetTransactions(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

func parseTransactionFilter(r *http.Request) (repository.TransactionFilter, error) {
	q := r.URL.Query()
	fields := make(map[string]string)
	var filter repository.TransactionFilter

	if id := q.Get("batchId"); id != "" {
		if err := validation.ValidateUUID(id); err != nil {
			fields["batchId"] = err.Error()
		}
		filter.BatchID = id
	}
	if from := q.Get("from"); from != "" {
		d, err := time.Parse(validation.DateLayout, from)
		if err != nil {
			fields["from"] = "date must be in YYYY-MM-DD format"
		}
		filter.From = d
	}
	if to := q.Get("to"); to != "" {
		d, err := time.Parse(validation.DateLayout, to)
		if err != nil {
			fields["to"] = "date must be in YYYY-MM-DD format"
		} else {
			filter.To = d.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		fields["from"] = "from must not be after to"
	}

	if len(fields) > 0 {
		return filter, &validation.Error{Fields: fields}
	}
	return filter, nil
}
