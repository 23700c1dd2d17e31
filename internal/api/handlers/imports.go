package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-insights/internal/api/response"
	"github.com/ndewijer/portfolio-insights/internal/apperrors"
	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/service"
)

// maxUpload caps the size of an uploaded broker export.
const maxUpload = 32 << 20

// ImportHandler handles HTTP requests for broker export uploads and import batches.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler with the provided service dependency.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportCSV handles CSV export uploads.
// The file is read from the multipart field "file", or from the raw request
// body when the request is not multipart.
//
// Endpoint: POST /api/import/csv?source=trading212
// Response: 201 Created with model.ImportBatch
// Error: 400 Bad Request if the file is missing, empty, malformed or the source unknown
// Error: 500 Internal Server Error if storing fails
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, fileName, err := uploadedFile(w, r, "export.csv")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}
	defer body.Close()

	batch, err := h.importService.ImportCSV(r.Context(), r.URL.Query().Get("source"), fileName, body)
	respondImport(w, batch, err)
}

// ImportIBKR handles IBKR Flex Query XML report uploads.
//
// Endpoint: POST /api/import/ibkr
// Response: 201 Created with model.ImportBatch
// Error: 400 Bad Request if the report is missing, empty or malformed
// Error: 500 Internal Server Error if storing fails
func (h *ImportHandler) ImportIBKR(w http.ResponseWriter, r *http.Request) {
	body, fileName, err := uploadedFile(w, r, "flex.xml")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}
	defer body.Close()

	batch, err := h.importService.ImportFlexReport(r.Context(), fileName, body)
	respondImport(w, batch, err)
}

// Batches handles GET requests listing every import batch, most recent first.
//
// Endpoint: GET /api/import
// Response: 200 OK with array of model.ImportBatch
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) Batches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.importService.GetBatches(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveImports.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, batches)
}

// Batch handles GET requests for a single import batch.
//
// Endpoint: GET /api/import/{uuid}
// Response: 200 OK with model.ImportBatch
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the batch does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) Batch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.importService.GetBatch(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		if errors.Is(err, apperrors.ErrImportBatchNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrImportBatchNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveImports.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, batch)
}

// DeleteBatch handles DELETE requests removing an import batch and its transactions.
//
// Endpoint: DELETE /api/import/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the batch does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *ImportHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	err := h.importService.DeleteBatch(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		if errors.Is(err, apperrors.ErrImportBatchNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrImportBatchNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteImport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

func respondImport(w http.ResponseWriter, batch model.ImportBatch, err error) {
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnsupportedSource),
			errors.Is(err, apperrors.ErrInvalidCSV),
			errors.Is(err, apperrors.ErrInvalidFlexReport),
			errors.Is(err, apperrors.ErrEmptyImport):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImport.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImport.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, batch)
}

// uploadedFile returns the uploaded content and its file name. Multipart
// requests must carry a "file" field; any other request is read as the raw
// file, named by the fileName query parameter or fallback.
func uploadedFile(w http.ResponseWriter, r *http.Request, fallback string) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return nil, "", err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		return file, header.Filename, nil
	}

	name := strings.TrimSpace(r.URL.Query().Get("fileName"))
	if name == "" {
		name = fallback
	}
	return r.Body, name, nil
}
