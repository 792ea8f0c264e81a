package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpulse/internal/config"
	apierrors "hrpulse/internal/errors"
	"hrpulse/internal/services"
)

func TestHealthHandler(t *testing.T) {
	logger := discardLogger()
	store := services.NewWorkbookStore(config.UploadConfig{}, nil, logger)
	defer store.Close()

	hs := services.NewHealthService("v1.0.0-test", config.PathsFrom(t.TempDir()), store, logger)
	handler := NewHealthHandler(hs, logger)

	tests := []struct {
		name        string
		handlerFunc http.HandlerFunc
		wantField   string
		wantValue   interface{}
	}{
		{"health", handler.HealthCheck, "status", "ok"},
		{"readiness", handler.ReadinessCheck, "status", "ready"},
		{"liveness", handler.LivenessCheck, "status", "alive"},
		{"version", handler.Version, "version", "v1.0.0-test"},
		{"stats", handler.Stats, "active_workbooks", float64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValue, body[tt.wantField])
		})
	}

	t.Run("detailed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.DetailedHealth(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["readiness"]["status"])
		assert.Equal(t, float64(0), body["stats"]["active_workbooks"])
	})
}

func TestHealthHandler_NotReady(t *testing.T) {
	logger := discardLogger()
	store := services.NewWorkbookStore(config.UploadConfig{}, nil, logger)
	store.Close()

	handler := NewHealthHandler(services.NewHealthService("dev", nil, store, logger), logger)

	rec := httptest.NewRecorder()
	handler.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestMetricsHandler(t *testing.T) {
	errorHandler := apierrors.NewErrorHandler(discardLogger(), false)

	t.Run("exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("csv_exports_total 3\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "csv_exports_total")
	})

	t.Run("metrics disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, apierrors.TypeServiceDown, problemType(t, rec))
	})
}
