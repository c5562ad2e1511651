package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/product"
	"github.com/daap14/stockroom/internal/user"
	"github.com/daap14/stockroom/internal/validation"
)

// maxBodyBytes bounds request bodies read by handlers.
const maxBodyBytes = 1 << 20

// writeError maps a service error onto the response envelope. Unexpected
// errors are logged with op and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, validation.ErrInvalidArgument):
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", validation.Fields(err), requestID)
	case errors.Is(err, product.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Product not found", requestID)
	case errors.Is(err, user.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
	case errors.Is(err, auth.ErrUnauthenticated):
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", requestID)
	case errors.Is(err, auth.ErrForbidden):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
	default:
		slog.Error("request failed", "op", op, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
	}
}

// pathID parses the {id} URL parameter, answering 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", middleware.GetRequestID(r.Context()))
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into v, answering 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

// caller returns the authenticated identity, answering 401 when there is none.
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id := middleware.GetIdentity(r.Context())
	if id == nil {
		writeError(w, r, auth.ErrUnauthenticated, "caller")
		return auth.Identity{}, false
	}
	return *id, true
}

const timeFormat = "2006-01-02T15:04:05Z"
