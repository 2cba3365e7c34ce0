package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/smart-inventory/pkg/logger"
)

const defaultEndpoint = "http://localhost:14268/api/traces"

type options struct {
	environment string
	sampleRatio float64
}

// Option customizes the tracer provider
type Option func(*options)

// WithEnvironment tags every span with the deployment environment
func WithEnvironment(env string) Option {
	return func(o *options) { o.environment = env }
}

// WithSampleRatio samples the given fraction of new traces. Ratios >= 1
// sample everything; child spans follow their parent's decision.
func WithSampleRatio(ratio float64) Option {
	return func(o *options) { o.sampleRatio = ratio }
}

func (o options) sampler() sdktrace.Sampler {
	if o.sampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.sampleRatio))
}

// InitTracer initializes OpenTelemetry tracer with Jaeger exporter
func InitTracer(serviceName, version, jaegerEndpoint string, opts ...Option) (trace.TracerProvider, error) {
	if jaegerEndpoint == "" {
		jaegerEndpoint = defaultEndpoint
	}
	o := options{sampleRatio: 1}
	for _, opt := range opts {
		opt(&o)
	}

	logger.Logger.Info().
		Str("endpoint", jaegerEndpoint).
		Float64("sample_ratio", o.sampleRatio).
		Msg("Initializing tracer")

	exporter, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
			semconv.DeploymentEnvironment(o.environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(o.sampler()),
	)

	otel.SetTracerProvider(tp)

	// W3C trace context travels over HTTP, gRPC and Kafka headers
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	logger.Logger.Info().Msg("Tracer initialized successfully")
	return tp, nil
}

// Shutdown gracefully shuts down the tracer
func Shutdown(ctx context.Context, tp trace.TracerProvider) error {
	if provider, ok := tp.(*sdktrace.TracerProvider); ok {
		return provider.Shutdown(ctx)
	}
	return nil
}
