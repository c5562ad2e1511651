package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
)

// dbPingTimeout bounds the database ping of a health check.
const dbPingTimeout = 2 * time.Second

// DBPinger reports whether the database answers.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	driver  string
	version string
}

// NewHealthHandler creates a new HealthHandler. driver names the storage
// backend reported in the response.
func NewHealthHandler(db DBPinger, driver, version string) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, version: version}
}

type databaseStatus struct {
	Driver    string `json:"driver"`
	Connected bool   `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request. An unreachable database makes
// the service "degraded" but the endpoint still answers 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), dbPingTimeout)
	defer cancel()

	status := "healthy"
	connected := true
	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("database ping failed", "error", err, "requestId", requestID)
		status = "degraded"
		connected = false
	}

	response.Success(w, http.StatusOK, healthData{
		Status:  status,
		Version: h.version,
		Database: databaseStatus{
			Driver:    h.driver,
			Connected: connected,
		},
	}, requestID)
}
