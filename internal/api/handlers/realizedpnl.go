package handlers

import (
	"net/http"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/pagination"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
)

// RealizedPnlHandler handles HTTP requests for the realized P&L projection.
type RealizedPnlHandler struct {
	realizedService *service.RealizedPnlService
}

// NewRealizedPnlHandler creates a new RealizedPnlHandler with the provided service dependency.
func NewRealizedPnlHandler(realizedService *service.RealizedPnlService) *RealizedPnlHandler {
	return &RealizedPnlHandler{
		realizedService: realizedService,
	}
}

// ListDisposals handles GET requests to retrieve realized disposals, one
// per sell in ledger order, each carrying the lots it consumed.
//
// Endpoint: GET /api/realized-pnl?limit=50&offset=0&asOf=2026-01-31
// Response: 200 OK with a page of disposals
// Error: 400 Bad Request if pagination or asOf parameters are malformed
// Error: 500 Internal Server Error if the projection fails
func (h *RealizedPnlHandler) ListDisposals(w http.ResponseWriter, r *http.Request) {
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

	disposals, err := h.realizedService.ComputeRealized(r.Context(), asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeRealizedPnl.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, pagination.Paginate(disposals, limit, offset))
}

// Summary handles GET requests to retrieve realized gains aggregated per
// security symbol.
//
// Endpoint: GET /api/realized-pnl/summary?asOf=2026-01-31
// Response: 200 OK with array of RealizedSummary sorted by symbol
// Error: 400 Bad Request if the asOf parameter is malformed
// Error: 500 Internal Server Error if the projection fails
func (h *RealizedPnlHandler) Summary(w http.ResponseWriter, r *http.Request) {
	asOf, err := request.ParseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf parameter", err.Error())
		return
	}

	summaries, err := h.realizedService.SummarizeRealized(r.Context(), asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeRealizedPnl.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}
