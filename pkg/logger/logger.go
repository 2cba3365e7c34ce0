package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

var Logger zerolog.Logger

type requestIDKey struct{}

// Init initializes the global logger. Development mode writes colored
// console lines; otherwise every line is one JSON object.
func Init(serviceName string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if isDevelopment {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Str("service", serviceName)
	if isDevelopment {
		ctx = ctx.Caller()
	}
	Logger = ctx.Logger()
	log.Logger = Logger
}

// ContextWithRequestID stores the request id for later log lines
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext returns a logger with trace information from context
func WithContext(ctx context.Context) *zerolog.Logger {
	fields := Logger.With()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		fields = fields.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = fields.Str("request_id", id)
	}

	logger := fields.Logger()
	return &logger
}

// Info logs at info level with context
func Info(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Info()
}

// Error logs at error level with context
func Error(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Error()
}

// Debug logs at debug level with context
func Debug(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Debug()
}

// Warn logs at warn level with context
func Warn(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Warn()
}

// Fatal logs at fatal level with context
func Fatal(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Fatal()
}

// SetLevel sets the global log level. An empty or unknown level falls back
// to info; unknown levels are also reported as an error.
func SetLevel(level string) error {
	if level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return fmt.Errorf("unknown log level %q", level)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}
