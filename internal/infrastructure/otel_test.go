package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func testLogger() *slog.Logger {
	return NewLogger(io.Discard, "error")
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_RepeatedInitDoesNotCollide(t *testing.T) {
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
		require.NoError(t, err)
		_, err = CreateBusinessMetrics(providers.Meter)
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		config  *OTelConfig
		wantErr bool
	}{
		{
			name: "stdout traces",
			config: &OTelConfig{
				ServiceName: "test", ServiceVersion: "v1", Environment: "test",
				TraceExporter: "stdout", MetricExporter: "prometheus",
				EnableMetrics: true, EnableTracing: true, SampleRatio: 1.0,
			},
		},
		{
			name: "everything disabled",
			config: &OTelConfig{
				ServiceName: "test", ServiceVersion: "v1", Environment: "test",
				TraceExporter: "none", MetricExporter: "none",
			},
		},
		{
			name: "unknown trace exporter",
			config: &OTelConfig{
				ServiceName: "test", TraceExporter: "jaeger", EnableTracing: true,
			},
			wantErr: true,
		},
		{
			name: "unknown metric exporter",
			config: &OTelConfig{
				ServiceName: "test", MetricExporter: "statsd", EnableMetrics: true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// disabled signals still hand out usable no-op instruments
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			_, err = CreateBusinessMetrics(providers.Meter)
			assert.NoError(t, err)

			if !tt.config.EnableMetrics {
				assert.Nil(t, providers.PrometheusHTTP)
			}
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "analysis")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	var buf bytes.Buffer
	NewLogger(&buf, "info").InfoContext(WithTraceID(ctx, traceID), "correlated")
	assert.Contains(t, buf.String(), traceID)
}

func TestSpanOperations(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "gaps")
	defer span.End()

	SetSpanAttributes(ctx, map[string]interface{}{
		"cohort":  "tertiary",
		"rows":    4,
		"bytes":   int64(10),
		"percent": 75.0,
		"empty":   false,
		"other":   []string{"x"},
	})
	AddSpanEvent(ctx, "gaps.detected", map[string]interface{}{"rows": 3})
	RecordError(ctx, assert.AnError)

	assert.True(t, span.IsRecording())

	// no span in context is a no-op
	SetSpanAttributes(context.Background(), map[string]interface{}{"a": 1})
	RecordError(context.Background(), assert.AnError)
}

func TestRecordHelpers(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	RecordUploadMetrics(ctx, metrics, 2048, 2, 15*time.Millisecond, nil)
	RecordUploadMetrics(ctx, metrics, 10, 0, time.Millisecond, assert.AnError)
	RecordAnalysisMetrics(ctx, metrics, "dashboard", 5*time.Millisecond, nil)
	RecordSkippedView(ctx, metrics, "age")
	RecordGapRows(ctx, metrics, "tertiary", 3)
	RecordExport(ctx, metrics, "tertiary")
	RecordWorkbookStoreChange(ctx, metrics, 1, false)
	RecordWorkbookStoreChange(ctx, metrics, -1, true)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), sums["workbook_uploads_total"])
	assert.Equal(t, int64(1), sums["analyses_total"])
	assert.Equal(t, int64(1), sums["views_skipped_total"])
	assert.Equal(t, int64(3), sums["qualification_gap_rows_total"])
	assert.Equal(t, int64(1), sums["csv_exports_total"])
	assert.Equal(t, int64(0), sums["workbooks_active"])
	assert.Equal(t, int64(1), sums["workbooks_expired_total"])
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordUploadMetrics(ctx, nil, 1, 1, time.Second, nil)
		RecordAnalysisMetrics(ctx, nil, "view", time.Second, nil)
		RecordSkippedView(ctx, nil, "age")
		RecordGapRows(ctx, nil, "secondary", 1)
		RecordExport(ctx, nil, "secondary")
		RecordWorkbookStoreChange(ctx, nil, 1, false)
	})
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordExport(context.Background(), metrics, "tertiary")

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "csv_exports_total")
	assert.Contains(t, string(body), "go_goroutines")
}
