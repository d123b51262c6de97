package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/pagination"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for ledger transaction
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests to retrieve the ledger, paginated.
// Rows come back in replay order: trade date ascending, insertion order
// breaking ties.
//
// Endpoint: GET /api/transaction?limit=50&offset=0
// Response: 200 OK with a page of transactions
// Error: 400 Bad Request if pagination parameters are malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := request.ParsePage(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid pagination parameters", err.Error())
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, pagination.Paginate(transactions, limit, offset))
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to append one ledger entry.
// Validates the request body; sells are additionally checked against
// open quantity.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (date, type, isin/symbol, quantity, price, fees)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails, the row duplicates an
// existing entry, or a sell exceeds open quantity
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOversell):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrOversell.Error(), err.Error())
		case errors.Is(err, apperrors.ErrDuplicateTransaction):
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateTransaction.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// ReverseTransaction handles POST requests to append a compensating
// entry for an existing transaction. The original row stays in the
// ledger; the pair cancels out during replay.
//
// Endpoint: POST /api/transaction/{uuid}/reverse
// Response: 201 Created with the reversal Transaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// or reversing would strand a later sell
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the transaction is already reversed
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	reversal, err := h.transactionService.ReverseTransaction(r.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrAlreadyReversed):
			response.RespondError(w, http.StatusConflict, apperrors.ErrAlreadyReversed.Error(), err.Error())
		case errors.Is(err, apperrors.ErrOversell):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrOversell.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to reverse transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, reversal)
}
