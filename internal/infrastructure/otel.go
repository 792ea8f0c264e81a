package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"hrpulse/internal/config"
)

const (
	ServiceName = "hrpulse"
	MeterName   = "hrpulse"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: config.AppVersion,
		Environment:    env,
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes tracing and metrics. Disabled signals fall back
// to no-op implementations so callers never check for nil.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	providers := &OTelProviders{
		Logger: logger,
		Tracer: otel.Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
	}

	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
		// spans are still created so trace IDs correlate logs, but nothing is exported
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics on a private Prometheus registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := promclient.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)

	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Workbook metrics
	WorkbookUploadsTotal  metric.Int64Counter
	WorkbookUploadBytes   metric.Int64Histogram
	WorkbookParseDuration metric.Float64Histogram
	WorkbooksActive       metric.Int64UpDownCounter
	WorkbooksExpired      metric.Int64Counter

	// Analysis metrics
	AnalysesTotal     metric.Int64Counter
	AnalysisDuration  metric.Float64Histogram
	ViewsSkippedTotal metric.Int64Counter
	GapRowsTotal      metric.Int64Counter
	ExportsTotal      metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of active HTTP requests")); err != nil {
		return nil, err
	}

	if m.WorkbookUploadsTotal, err = meter.Int64Counter("workbook_uploads_total",
		metric.WithDescription("Total number of workbook uploads by outcome")); err != nil {
		return nil, err
	}
	if m.WorkbookUploadBytes, err = meter.Int64Histogram("workbook_upload_bytes",
		metric.WithDescription("Size of uploaded workbooks"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.WorkbookParseDuration, err = meter.Float64Histogram("workbook_parse_duration_seconds",
		metric.WithDescription("Time spent reading a workbook into tables"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.WorkbooksActive, err = meter.Int64UpDownCounter("workbooks_active",
		metric.WithDescription("Number of workbooks held in memory")); err != nil {
		return nil, err
	}
	if m.WorkbooksExpired, err = meter.Int64Counter("workbooks_expired_total",
		metric.WithDescription("Total number of workbooks evicted by TTL or capacity")); err != nil {
		return nil, err
	}

	if m.AnalysesTotal, err = meter.Int64Counter("analyses_total",
		metric.WithDescription("Total number of analyses by kind")); err != nil {
		return nil, err
	}
	if m.AnalysisDuration, err = meter.Float64Histogram("analysis_duration_seconds",
		metric.WithDescription("Analysis duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ViewsSkippedTotal, err = meter.Int64Counter("views_skipped_total",
		metric.WithDescription("Views skipped because the sheet lacks their columns")); err != nil {
		return nil, err
	}
	if m.GapRowsTotal, err = meter.Int64Counter("qualification_gap_rows_total",
		metric.WithDescription("Cohort rows found without a usable qualification grade")); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter("csv_exports_total",
		metric.WithDescription("Total number of CSV exports")); err != nil {
		return nil, err
	}

	return &m, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(toAttributes(attributes)...)
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
}

func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	return attrs
}

// RecordUploadMetrics records the outcome of a workbook upload
func RecordUploadMetrics(ctx context.Context, metrics *BusinessMetrics, size int64, sheets int, parse time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	metrics.WorkbookUploadsTotal.Add(ctx, 1, attrs)
	metrics.WorkbookUploadBytes.Record(ctx, size, attrs)
	metrics.WorkbookParseDuration.Record(ctx, parse.Seconds(), attrs)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("workbook.uploaded", trace.WithAttributes(
			attribute.Int64("workbook.bytes", size),
			attribute.Int("workbook.sheets", sheets),
			attribute.String("status", status),
		))
	}
}

// RecordAnalysisMetrics records one analysis request
func RecordAnalysisMetrics(ctx context.Context, metrics *BusinessMetrics, kind string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("analysis.kind", kind),
		attribute.String("status", status),
	)
	metrics.AnalysesTotal.Add(ctx, 1, attrs)
	metrics.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSkippedView counts a view that could not run on the active sheet
func RecordSkippedView(ctx context.Context, metrics *BusinessMetrics, view string) {
	if metrics == nil {
		return
	}
	metrics.ViewsSkippedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("view", view)))
}

// RecordGapRows counts gap rows found for a cohort
func RecordGapRows(ctx context.Context, metrics *BusinessMetrics, cohort string, rows int) {
	if metrics == nil {
		return
	}
	metrics.GapRowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("cohort", cohort)))
}

// RecordExport counts a CSV export
func RecordExport(ctx context.Context, metrics *BusinessMetrics, cohort string) {
	if metrics == nil {
		return
	}
	metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("cohort", cohort)))
}

// RecordWorkbookStoreChange records workbooks entering or leaving the store
func RecordWorkbookStoreChange(ctx context.Context, metrics *BusinessMetrics, delta int64, expired bool) {
	if metrics == nil {
		return
	}
	metrics.WorkbooksActive.Add(ctx, delta)
	if expired {
		metrics.WorkbooksExpired.Add(ctx, -delta)
	}
}
