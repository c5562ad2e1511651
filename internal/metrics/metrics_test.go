package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/metrics"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.ObserveHTTP(http.MethodGet, "/api/products/{id}", http.StatusOK, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/products/{id}", http.StatusOK, 5*time.Millisecond)
	m.IntrospectionResult("active")
	m.UserSynced("created")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"stockroom_http_requests_total",
		"stockroom_http_request_duration_seconds",
		"stockroom_introspection_requests_total",
		"stockroom_user_syncs_total",
	}, names)
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestHandler_ExposesCounters(t *testing.T) {
	m, err := metrics.New(nil)
	require.NoError(t, err)

	m.UserSynced("updated")
	m.UserSynced("updated")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stockroom_user_syncs_total{outcome="updated"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}
