package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitTracer_SetsGlobals(t *testing.T) {
	tp, err := InitTracer("inventory-test", "test", "http://127.0.0.1:1/api/traces")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), tp) })

	assert.Same(t, tp, otel.GetTracerProvider())

	carrier := propagation.MapCarrier{}
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	span.End()
	assert.NotEmpty(t, carrier.Get("traceparent"))
}

func TestShutdown_NonSDKProvider(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background(), noop.NewTracerProvider()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), options{sampleRatio: 1}.sampler().Description())
	assert.Contains(t, options{sampleRatio: 0.25}.sampler().Description(), "TraceIDRatioBased{0.25}")
}

func TestInitTracer_ZeroRatioDropsRootSpans(t *testing.T) {
	tp, err := InitTracer("inventory-test", "test", "http://127.0.0.1:1/api/traces",
		WithEnvironment("test"),
		WithSampleRatio(0),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), tp) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
