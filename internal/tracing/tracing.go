package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Provider owns the process tracer provider
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup installs a global tracer provider. Spans are sampled by the
// parent, so nothing is recorded unless an exporter is registered with
// RegisterExporter.
func Setup(serviceName, version string) *Provider {
	res := resource.NewSchemaless(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}
}

// RegisterExporter attaches a span exporter through a batching processor
func (p *Provider) RegisterExporter(exp sdktrace.SpanExporter) {
	p.tp.RegisterSpanProcessor(sdktrace.NewBatchSpanProcessor(exp))
}

// RegisterProcessor attaches a span processor as is
func (p *Provider) RegisterProcessor(sp sdktrace.SpanProcessor) {
	p.tp.RegisterSpanProcessor(sp)
}

// Shutdown flushes pending spans
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
