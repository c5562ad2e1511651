package handler

import (
	"context"
	"net/http"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
)

// Introspector returns the identity provider's verdict on a token.
type Introspector interface {
	Introspect(ctx context.Context, token string) map[string]any
}

// IntrospectHandler relays the caller's own token to the identity provider.
// Its responses are the provider's JSON object as is, not the envelope.
type IntrospectHandler struct {
	introspector Introspector
}

// NewIntrospectHandler creates a new IntrospectHandler.
func NewIntrospectHandler(introspector Introspector) *IntrospectHandler {
	return &IntrospectHandler{introspector: introspector}
}

// Introspect handles POST /api/introspect. It always answers 200; an
// unreachable provider yields {"active": false, "error": "..."}.
func (h *IntrospectHandler) Introspect(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	result := h.introspector.Introspect(r.Context(), middleware.GetToken(r.Context()))
	response.JSON(w, http.StatusOK, result)
}

// Health handles GET /api/introspect/health.
func (h *IntrospectHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
