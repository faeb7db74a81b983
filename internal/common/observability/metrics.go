package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability carries the OpenTelemetry meter instruments. A zero value is
// usable and records nothing.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	rosterCounter   otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
	eventCounter    otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	rosterCounter, _ := meter.Int64Counter(
		"roster.operations",
		otelmetric.WithDescription("Number of signup and unregister operations"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request handling duration"),
		otelmetric.WithUnit("ms"),
	)

	eventCounter, _ := meter.Int64Counter(
		"roster.events",
		otelmetric.WithDescription("Roster events handed to sinks"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		rosterCounter:   rosterCounter,
		requestDuration: requestDuration,
		eventCounter:    eventCounter,
	}
}

func (o *Observability) RecordRosterOperation(ctx context.Context, activity, action, outcome string) {
	if o == nil || o.rosterCounter == nil {
		return
	}
	o.rosterCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("activity", activity),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordRequestDuration(ctx context.Context, duration time.Duration, route string, status int) {
	if o == nil || o.requestDuration == nil {
		return
	}
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}

func (o *Observability) RecordEvent(ctx context.Context, sink, status string) {
	if o == nil || o.eventCounter == nil {
		return
	}
	o.eventCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("sink", sink),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o.meterProvider.Shutdown(ctx)
}
