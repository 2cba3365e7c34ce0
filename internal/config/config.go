package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/smart-inventory/pkg/database"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds the service configuration
type Config struct {
	ServiceName string
	Version     string
	Environment string
	LogLevel    string

	HTTPPort string
	GRPCPort string

	StoreDriver string
	Database    database.Config

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaGroupID string

	RedisAddr     string
	RedisPassword string

	JWTSecret   string
	AuthEnabled bool

	AlertInterval          time.Duration
	AlertExpiryHorizonDays int

	JaegerEndpoint   string
	TraceSampleRatio float64
}

// IsDevelopment reports whether console logging should be used
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the environment
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "inventory-service"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnv("HTTP_PORT", "8080"),
		GRPCPort: getEnv("GRPC_PORT", "9090"),

		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "inventorydb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		KafkaEnabled: getEnvBool("KAFKA_ENABLED", false),
		KafkaBrokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "inventory-service"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		AuthEnabled: getEnvBool("AUTH_ENABLED", true),

		AlertInterval:          getEnvDuration("ALERT_INTERVAL", time.Hour),
		AlertExpiryHorizonDays: getEnvInt("ALERT_EXPIRY_HORIZON_DAYS", 30),

		JaegerEndpoint:   getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TraceSampleRatio: getEnvFloat("TRACE_SAMPLE_RATIO", 1),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
