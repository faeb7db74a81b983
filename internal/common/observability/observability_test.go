package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mergington-activities/internal/common/config"
)

func TestZeroObservability_IsSafe(t *testing.T) {
	var nilObs *Observability
	assert.NotPanics(t, func() {
		nilObs.RecordRosterOperation(context.Background(), "Chess Club", "signed_up", "success")
		nilObs.RecordRequestDuration(context.Background(), time.Millisecond, "/activities", 200)
		nilObs.RecordEvent(context.Background(), "redis", "ok")
		nilObs.Shutdown()
	})

	empty := &Observability{}
	assert.NotPanics(t, func() {
		empty.RecordRosterOperation(context.Background(), "Chess Club", "signed_up", "success")
		empty.Shutdown()
	})
}

func TestNewTracing_DisabledIsNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TracingConfig
	}{
		{"disabled", config.TracingConfig{Enabled: false, JaegerEndpoint: "http://localhost:14268/api/traces"}},
		{"no endpoint", config.TracingConfig{Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTracing(context.Background(), tt.cfg, "activities-api", "test")
			require.NoError(t, err)

			_, span := tr.Tracer().Start(context.Background(), "noop")
			assert.False(t, span.SpanContext().IsValid())
			span.End()
			assert.NoError(t, tr.Shutdown(context.Background()))
		})
	}
}

func TestTracingWithProvider_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracingWithProvider(tp, "test")

	_, span := tr.Tracer().Start(context.Background(), "signup")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "signup", ended[0].Name())
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNilTracing_ReturnsTracer(t *testing.T) {
	var tr *Tracing
	assert.NotNil(t, tr.Tracer())
	assert.NoError(t, tr.Shutdown(context.Background()))
}
