package grpc

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/smart-inventory/pkg/logger"
)

// ServiceName is the health service name reported next to the overall status
const ServiceName = "inventory.InventoryService"

// Pinger reports store health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer serves the standard gRPC health protocol backed by store pings
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	store  Pinger
}

// NewHealthServer creates a gRPC server with health and reflection services
func NewHealthServer(store Pinger) *HealthServer {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(RecoveryInterceptor, LoggingInterceptor),
		grpc.ChainStreamInterceptor(StreamLoggingInterceptor),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(server)

	return &HealthServer{server: server, health: healthServer, store: store}
}

// CheckHealth pings the store once and publishes the result
func (s *HealthServer) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Store health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// WatchHealth re-checks the store every interval until ctx is cancelled
func (s *HealthServer) WatchHealth(ctx context.Context, interval time.Duration) {
	s.CheckHealth(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckHealth(ctx)
		}
	}
}

// Serve accepts connections on lis until Stop is called
func (s *HealthServer) Serve(lis net.Listener) error {
	logger.Logger.Info().
		Str("addr", lis.Addr().String()).
		Msg("gRPC server starting")
	return s.server.Serve(lis)
}

// Stop marks the service as not serving and drains in-flight calls
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
