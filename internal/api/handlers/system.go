package handlers

import (
	"net/http"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health checks the health of the system and database connectivity.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable when degraded
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.systemService.CheckHealth(r.Context())

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	response.RespondJSON(w, code, status)
}

// Version handles GET requests to retrieve version information.
// Returns the application version and the applied schema version.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfo
// Error: 500 Internal Server Error if version lookup fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.GetVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to get version information", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}
