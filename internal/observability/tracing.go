package observability

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/logger"
)

// ServiceName identifies this service in traces.
const ServiceName = "weekly-meal-planner"

// Tracer returns the named tracer from the global provider. Until InitTracing installs a
// provider it is a no-op.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(ServiceName + "/" + name)
}

// InitTracing installs a global tracer provider when tracing is enabled and returns its
// shutdown function. Spans go to the OTLP endpoint when one is configured, else to stdout.
func InitTracing(ctx context.Context, cfg *config.Config, log *logger.Logger) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.TracingEnabled {
		return noop, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(ServiceName),
		attribute.String("deployment.environment", cfg.LogMode),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	exporter, err := newExporter(ctx, cfg, nil)
	if err != nil {
		return noop, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	endpoint := cfg.OTLPEndpoint
	if endpoint == "" {
		endpoint = "stdout"
	}
	log.Info("otel tracing initialized", "endpoint", endpoint, "ratio", cfg.TraceSampleRatio)
	return tp.Shutdown, nil
}

// newExporter builds the span exporter. w overrides stdout for the fallback exporter.
func newExporter(ctx context.Context, cfg *config.Config, w io.Writer) (sdktrace.SpanExporter, error) {
	if cfg.OTLPEndpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if w != nil {
		opts = append(opts, stdouttrace.WithWriter(w))
	}
	return stdouttrace.New(opts...)
}
