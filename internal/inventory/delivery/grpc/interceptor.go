package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tair/smart-inventory/pkg/logger"
)

// LoggingInterceptor logs unary calls. Successful calls are logged at debug
// level so health checks do not flood the log.
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logCall(ctx, info.FullMethod, "unary", time.Since(start), err)
	return resp, err
}

// StreamLoggingInterceptor logs server streams such as health Watch when they end
func StreamLoggingInterceptor(
	srv interface{},
	ss grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	start := time.Now()
	err := handler(srv, ss)
	logCall(ss.Context(), info.FullMethod, "stream", time.Since(start), err)
	return err
}

// RecoveryInterceptor turns a panicking handler into an Internal status
func RecoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx).
				Str("method", info.FullMethod).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("gRPC handler panicked")
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func logCall(ctx context.Context, method, kind string, duration time.Duration, err error) {
	var event *zerolog.Event
	code := status.Code(err)
	switch {
	case err == nil:
		event = logger.Debug(ctx)
	case code == codes.Canceled || code == codes.DeadlineExceeded:
		event = logger.Warn(ctx).Err(err)
	default:
		event = logger.Error(ctx).Err(err)
	}

	event.
		Str("method", method).
		Str("rpc_kind", kind).
		Str("grpc_status", code.String()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("gRPC call finished")
}
