package handlers

import (
	"net/http"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/pagination"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
)

// HoldingsHandler handles HTTP requests for the holdings projection.
type HoldingsHandler struct {
	holdingsService *service.HoldingsService
}

// NewHoldingsHandler creates a new HoldingsHandler with the provided service dependency.
func NewHoldingsHandler(holdingsService *service.HoldingsService) *HoldingsHandler {
	return &HoldingsHandler{
		holdingsService: holdingsService,
	}
}

// ListHoldings handles GET requests to retrieve current open positions,
// recomputed from the ledger on every call and enriched with live market
// prices. Positions whose quantity has fallen to zero are excluded.
//
// Endpoint: GET /api/holding?limit=50&offset=0&asOf=2026-01-31
// Response: 200 OK with a page of holdings sorted by symbol
// Error: 400 Bad Request if pagination or asOf parameters are malformed
// Error: 500 Internal Server Error if the projection fails
func (h *HoldingsHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := request.ParsePage(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid pagination parameters", err.Error())
		return
	}
	asOf, err := request.ParseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf parameter", err.Error())
		return
	}

	holdings, err := h.holdingsService.ComputeHoldings(r.Context(), asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, pagination.Paginate(holdings, limit, offset))
}
