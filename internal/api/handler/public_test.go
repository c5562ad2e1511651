package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/api/handler"
)

func TestPublicHealth(t *testing.T) {
	h := handler.NewPublicHandler("1.0.0")

	req, w := makeChiRequest(http.MethodGet, "/api/public/health", nil, nil)
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "UP", data["status"])
	assert.Equal(t, "Backend API is running", data["message"])
}

func TestPublicInfo(t *testing.T) {
	h := handler.NewPublicHandler("2.3.4")

	req, w := makeChiRequest(http.MethodGet, "/api/public/info", nil, nil)
	h.Info(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "OIDC Demo Backend", data["app"])
	assert.Equal(t, "2.3.4", data["version"])
	assert.NotEmpty(t, data["description"])
}
