// Package telemetry traces the stages of a conversion run with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	serviceName = "convo"
	tracerName  = "github.com/cchalm/convo"
)

// Config holds the configuration for telemetry
type Config struct {
	Enabled        bool
	Endpoint       string // OTLP/HTTP traces URL; empty defers to OTEL_EXPORTER_OTLP_* variables
	ServiceVersion string
}

// Provider hands out the tracer for one run
type Provider struct {
	RunID    string
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

// NewProvider creates a provider. When telemetry is disabled every span is a no-op.
func NewProvider(ctx context.Context, config Config, logger *zap.Logger) (*Provider, error) {
	runID := uuid.New().String()

	if !config.Enabled {
		logger.Debug("telemetry disabled")
		return &Provider{
			RunID:    runID,
			tracer:   noop.NewTracerProvider().Tracer(tracerName),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	var opts []otlptracehttp.Option
	if config.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(config.Endpoint))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", serviceName),
		attribute.String("service.version", config.ServiceVersion),
		attribute.String("convo.run_id", runID),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Debug("telemetry enabled", zap.String("endpoint", config.Endpoint), zap.String("run_id", runID))

	return &Provider{
		RunID:    runID,
		tracer:   tp.Tracer(tracerName),
		shutdown: tp.Shutdown,
	}, nil
}

// Start opens a span for one pipeline stage
func (p *Provider) Start(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, stage, trace.WithAttributes(attrs...))
}

// Shutdown flushes buffered spans
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

// RecordError marks the span as failed
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
