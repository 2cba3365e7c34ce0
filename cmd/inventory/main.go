package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/smart-inventory/docs"
	"github.com/tair/smart-inventory/internal/config"
	"github.com/tair/smart-inventory/internal/inventory"
	grpcDelivery "github.com/tair/smart-inventory/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/smart-inventory/internal/inventory/delivery/http"
	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/internal/inventory/repository"
	"github.com/tair/smart-inventory/internal/inventory/worker"
	"github.com/tair/smart-inventory/kafka"
	"github.com/tair/smart-inventory/pkg/auth"
	"github.com/tair/smart-inventory/pkg/database"
	"github.com/tair/smart-inventory/pkg/lock"
	"github.com/tair/smart-inventory/pkg/logger"
	"github.com/tair/smart-inventory/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Logger.Warn().Err(err).Msg("Using info log level")
	}

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.StoreDriver).
		Msg("Starting inventory service")

	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.Version, cfg.JaegerEndpoint,
		tracing.WithEnvironment(cfg.Environment),
		tracing.WithSampleRatio(cfg.TraceSampleRatio),
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(cfg)
	defer closeStore()

	publisher, closePublisher := openPublisher(cfg)
	defer closePublisher()

	auth.SetSecret(cfg.JWTSecret)
	m := metrics.New(prometheus.DefaultRegisterer)

	svc, err := inventory.InitializeService(
		store,
		publisher,
		domain.SystemClock{},
		m,
		httpDelivery.NewAuthenticator(cfg.AuthEnabled),
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	if cfg.KafkaEnabled {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicStockTransactions})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		defer consumer.Close()

		consumer.RegisterHandler(kafka.EventTypeStockTransactionRequested, kafka.StockTransactionHandler(svc.Commands.RecordTransaction))
		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
		}
	}

	var locker worker.Locker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		locker = lock.NewRedisLocker(client)
	}
	alertWorker := worker.NewAlertWorker(svc.Commands.GenerateAlerts, locker, cfg.AlertInterval, cfg.AlertExpiryHorizonDays)
	go alertWorker.Run(ctx)

	grpcServer := startGRPCServer(ctx, store, cfg.GRPCPort)
	httpServer := startHTTPServer(svc.Handler, store, m, cfg.HTTPPort)

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.Stop()

	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}

	logger.Logger.Info().Msg("Server stopped")
}

// openStore returns the traced unit of work selected by STORE_DRIVER
func openStore(cfg config.Config) (*repository.StoreWithTracing, func()) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Logger.Warn().Msg("Using in-memory store; data is lost on restart")
		return repository.NewStoreWithTracing(repository.NewMemoryStore(domain.SystemClock{})), func() {}
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	gormStore := repository.NewGormStore(db)
	if err := gormStore.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")
	return repository.NewStoreWithTracing(gormStore), func() { sqlDB.Close() }
}

// openPublisher returns the Kafka publisher, or a no-op one when Kafka is disabled
func openPublisher(cfg config.Config) (domain.EventPublisher, func()) {
	if !cfg.KafkaEnabled {
		logger.Logger.Info().Msg("Kafka disabled; domain events are discarded")
		return domain.NoopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, kafka.TopicInventoryEvents)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
	}
	return publisher, func() { publisher.Close() }
}

func startGRPCServer(ctx context.Context, store grpcDelivery.Pinger, port string) *grpcDelivery.HealthServer {
	server := grpcDelivery.NewHealthServer(store)
	go server.WatchHealth(ctx, 10*time.Second)

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}

	go func() {
		if err := server.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()
	return server
}

func startHTTPServer(handler *httpDelivery.InventoryHandler, store httpDelivery.Pinger, m *metrics.Metrics, port string) *http.Server {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(m)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, store)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/").
		Msg("HTTP server started")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
	return server
}
