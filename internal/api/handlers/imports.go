package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/validation"
)

// ImportHandler handles HTTP requests for CSV imports and import batch
// management.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler with the provided service dependency.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportTransactions handles POST requests to import transactions from
// CSV text. Rows that fail validation, duplicate existing entries or
// would oversell are skipped with row errors while the rest of the batch
// proceeds; accepted rows commit atomically. With dryRun=true the full
// pipeline runs but nothing is persisted.
//
// Endpoint: POST /api/transaction/import
// Request Body: ImportTransactionsRequest (csv, dryRun, preview)
// Response: 200 OK with ImportResult (parsed == inserted + skipped)
// Error: 400 Bad Request if the body is invalid, the CSV is empty or
// missing required columns
// Error: 413 Request Entity Too Large if the CSV exceeds the row cap
// Error: 500 Internal Server Error if the commit fails
func (h *ImportHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ImportTransactionsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportTransactions(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.importService.Import(r.Context(), req.CSV, req.DryRun, req.Preview)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyCSV), errors.Is(err, apperrors.ErrInvalidCSVHeaders):
			response.RespondError(w, http.StatusBadRequest, "invalid CSV payload", err.Error())
		case errors.Is(err, apperrors.ErrTooManyRows):
			response.RespondError(w, http.StatusRequestEntityTooLarge, apperrors.ErrTooManyRows.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// ListBatches handles GET requests to retrieve all import batches,
// newest first.
//
// Endpoint: GET /api/import-batch
// Response: 200 OK with array of ImportBatch
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.importService.ListBatches(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBatches.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, batches)
}

// GetBatch handles GET requests to retrieve one import batch.
//
// Endpoint: GET /api/import-batch/{uuid}
// Response: 200 OK with ImportBatch
// Error: 400 Bad Request if the batch ID is invalid (validated by middleware)
// Error: 404 Not Found if the batch does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "uuid")

	batch, err := h.importService.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrImportBatchNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrImportBatchNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBatches.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, batch)
}

// RollbackBatch handles POST requests to roll back an import batch by
// appending reversal entries for every transaction it created. The
// original rows stay in the ledger. Guarded by the API key middleware.
//
// Endpoint: POST /api/import-batch/{uuid}/rollback
// Response: 200 OK with the updated ImportBatch
// Error: 400 Bad Request if the batch ID is invalid (validated by
// middleware) or reversing would strand a later sell
// Error: 404 Not Found if the batch does not exist
// Error: 409 Conflict if the batch was already rolled back
// Error: 500 Internal Server Error if the rollback fails
func (h *ImportHandler) RollbackBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "uuid")

	batch, err := h.importService.RollbackBatch(r.Context(), batchID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrImportBatchNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrImportBatchNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrBatchAlreadyRolledBack):
			response.RespondError(w, http.StatusConflict, apperrors.ErrBatchAlreadyRolledBack.Error(), err.Error())
		case errors.Is(err, apperrors.ErrOversell):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrOversell.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRollbackBatch.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, batch)
}
