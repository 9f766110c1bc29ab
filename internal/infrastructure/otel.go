package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
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
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer and meter
const InstrumentationName = "vitiscli"

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
	SampleRatio    float64
	TraceWriter    io.Writer // stdout when nil
}

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// no-op implementations when the matching signal is disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	logger         *slog.Logger
}

// DefaultOTelConfig returns metrics on and tracing off
func DefaultOTelConfig(serviceName, version string) *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	return &OTelConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    env,
		EnableMetrics:  true,
		SampleRatio:    1.0,
	}
}

// InitializeOTel sets up tracing and metrics. Metrics are exported through a
// dedicated Prometheus registry served by PrometheusHTTP.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig(InstrumentationName, "dev")
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:  noop.NewMeterProvider().Meter(InstrumentationName),
		logger: logger,
	}

	if cfg.EnableTracing {
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stdout
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetTracerProvider(tp)
	}

	if cfg.EnableMetrics {
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics),
	)
	return providers, nil
}

// Shutdown flushes and stops the providers
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
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// AnalyticsMetrics holds the application instruments
type AnalyticsMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	AnalysisErrors   metric.Int64Counter

	CacheHits     metric.Int64Counter
	CacheMisses   metric.Int64Counter
	RecordsLoaded metric.Int64Counter
}

// NewAnalyticsMetrics creates every instrument on meter
func NewAnalyticsMetrics(meter metric.Meter) (*AnalyticsMetrics, error) {
	m := &AnalyticsMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests")); err != nil {
		return nil, err
	}
	if m.AnalysesTotal, err = meter.Int64Counter("analytics_computations_total",
		metric.WithDescription("Analyses computed, excluding cache hits")); err != nil {
		return nil, err
	}
	if m.AnalysisDuration, err = meter.Float64Histogram("analytics_computation_duration_seconds",
		metric.WithDescription("Time spent computing an analysis"), metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.AnalysisErrors, err = meter.Int64Counter("analytics_errors_total",
		metric.WithDescription("Analyses that failed")); err != nil {
		return nil, err
	}
	if m.CacheHits, err = meter.Int64Counter("analytics_cache_hits_total",
		metric.WithDescription("Analyses served from the memo cache")); err != nil {
		return nil, err
	}
	if m.CacheMisses, err = meter.Int64Counter("analytics_cache_misses_total",
		metric.WithDescription("Analyses not found in the memo cache")); err != nil {
		return nil, err
	}
	if m.RecordsLoaded, err = meter.Int64Counter("dataset_records_loaded_total",
		metric.WithDescription("Trade records loaded from storage")); err != nil {
		return nil, err
	}
	return m, nil
}

// NoopAnalyticsMetrics returns instruments that record nothing
func NoopAnalyticsMetrics() *AnalyticsMetrics {
	m, _ := NewAnalyticsMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordAnalysis records one computed analysis
func (m *AnalyticsMetrics) RecordAnalysis(ctx context.Context, analysis string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("analysis", analysis))
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.AnalysisErrors.Add(ctx, 1, attrs)
	}
}

// RecordCacheLookup records a memo cache hit or miss
func (m *AnalyticsMetrics) RecordCacheLookup(ctx context.Context, analysis string, hit bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("analysis", analysis))
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
	} else {
		m.CacheMisses.Add(ctx, 1, attrs)
	}
}

// RecordRecordsLoaded records the size of a loaded dataset
func (m *AnalyticsMetrics) RecordRecordsLoaded(ctx context.Context, flow string, n int) {
	if m == nil {
		return
	}
	m.RecordsLoaded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("flow", flow)))
}

// RecordError records err on the span carried by ctx
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
