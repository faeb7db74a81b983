package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mergington-activities/internal/common/config"
)

// Tracing owns the tracer used for per-request spans.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracing sets up a tracer provider. Tracing is opt-in: when disabled or
// no collector endpoint is configured a no-op tracer is returned.
func NewTracing(ctx context.Context, cfg config.TracingConfig, serviceName, version string) (*Tracing, error) {
	if !cfg.Enabled || cfg.JaegerEndpoint == "" {
		return NoopTracing(), nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
	if err != nil {
		return NoopTracing(), err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return NoopTracing(), err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Tracing{provider: tp, tracer: tp.Tracer(serviceName)}, nil
}

// NoopTracing returns a Tracing whose spans are never recorded.
func NoopTracing() *Tracing {
	return &Tracing{tracer: noop.NewTracerProvider().Tracer("")}
}

// NewTracingWithProvider wraps an existing provider, mostly for tests that
// use an in-memory span recorder.
func NewTracingWithProvider(tp *sdktrace.TracerProvider, name string) *Tracing {
	return &Tracing{provider: tp, tracer: tp.Tracer(name)}
}

func (t *Tracing) Tracer() trace.Tracer {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return t.tracer
}

func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
