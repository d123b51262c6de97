package service

import (
	"context"
	"database/sql"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/database"
)

// Version is the application version reported by the system endpoints.
const Version = "1.0.0"

// SystemService handles health and version reporting.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService with the provided database connection.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// HealthStatus describes the liveness of the service and its database.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// VersionInfo reports the application version and the applied schema version.
type VersionInfo struct {
	Version       string `json:"version"`
	SchemaVersion int64  `json:"schemaVersion"`
}

// CheckHealth pings the database and reports overall health.
func (s *SystemService) CheckHealth(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok", Database: "ok"}
	if err := database.HealthCheck(s.db); err != nil {
		status.Status = "degraded"
		status.Database = err.Error()
	}
	return status
}

// GetVersion reports the application and schema versions.
func (s *SystemService) GetVersion(ctx context.Context) (VersionInfo, error) {
	schemaVersion, err := database.Version(s.db)
	if err != nil {
		return VersionInfo{}, err
	}
	return VersionInfo{Version: Version, SchemaVersion: schemaVersion}, nil
}
