package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/logger"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &config.Config{}, logger.Nop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Expected no-op shutdown, got %v", err)
	}
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := newExporter(context.Background(), &config.Config{}, &buf)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	_, span := tp.Tracer("test").Start(context.Background(), "plan.generate")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if !strings.Contains(buf.String(), "plan.generate") {
		t.Errorf("Expected the span to be exported, got %q", buf.String())
	}
}
