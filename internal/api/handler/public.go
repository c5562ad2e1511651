package handler

import (
	"net/http"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
)

const appName = "OIDC Demo Backend"

type publicHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type publicInfo struct {
	App         string `json:"app"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// PublicHandler serves the unauthenticated /api/public endpoints.
type PublicHandler struct {
	version string
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(version string) *PublicHandler {
	return &PublicHandler{version: version}
}

// Health handles GET /api/public/health.
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, publicHealth{
		Status:  "UP",
		Message: "Backend API is running",
	}, middleware.GetRequestID(r.Context()))
}

// Info handles GET /api/public/info.
func (h *PublicHandler) Info(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, publicInfo{
		App:         appName,
		Version:     h.version,
		Description: "Product and user management API secured by Keycloak",
	}, middleware.GetRequestID(r.Context()))
}
