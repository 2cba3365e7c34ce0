package http

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/pkg/logger"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
	swaggerPathPrefix  = "/swagger/"
)

// timeoutBody is the envelope written when a request exceeds its deadline
const timeoutBody = `{"success":false,"error":"request timeout","kind":"TIMEOUT"}`

// MiddlewareConfig holds configuration for middlewares
type MiddlewareConfig struct {
	EnableLogging   bool
	EnableTracing   bool
	EnableCORS      bool
	EnableRecovery  bool
	EnableTimeout   bool
	TimeoutDuration time.Duration
	CORSOptions     cors.Options
	Metrics         *metrics.Metrics
}

// DefaultMiddlewareConfig returns default middleware configuration
func DefaultMiddlewareConfig(m *metrics.Metrics) *MiddlewareConfig {
	return &MiddlewareConfig{
		EnableLogging:   true,
		EnableTracing:   true,
		EnableCORS:      true,
		EnableRecovery:  true,
		EnableTimeout:   true,
		TimeoutDuration: 30 * time.Second,
		CORSOptions: cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		},
		Metrics: m,
	}
}

// RegisterMiddlewares registers all configured middlewares to the router
func RegisterMiddlewares(router *mux.Router, config *MiddlewareConfig) {
	logger.Logger.Info().
		Bool("logging", config.EnableLogging).
		Bool("tracing", config.EnableTracing).
		Bool("cors", config.EnableCORS).
		Bool("recovery", config.EnableRecovery).
		Bool("timeout", config.EnableTimeout).
		Dur("timeout_duration", config.TimeoutDuration).
		Msg("Registering middlewares")

	// Recovery middleware (first - catches panics)
	if config.EnableRecovery {
		router.Use(RecoveryMiddleware())
	}

	if config.EnableTimeout {
		router.Use(TimeoutMiddleware(config.TimeoutDuration))
	}

	// Tracing before logging so request logs carry the trace id
	if config.EnableTracing {
		router.Use(func(next http.Handler) http.Handler {
			return TracingMiddleware("inventory-http-request", next)
		})
	}

	// Request ID middleware (for correlation)
	router.Use(RequestIDMiddleware())

	if config.EnableLogging {
		router.Use(LoggingMiddleware)
	}

	router.Use(MetricsMiddleware(config.Metrics))

	router.Use(SecurityHeadersMiddleware())

	logger.Logger.Info().Msg("All middlewares registered successfully")
}

// RecoveryMiddleware recovers from panics and returns 500 error
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error(r.Context()).
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("Panic recovered")

					respondStatus(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// TimeoutMiddleware cancels the request context after timeout and answers 503
// with a JSON envelope
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}

// RequestIDMiddleware adds a unique request ID to each request and its log lines
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, requestID)
			r.Header.Set(requestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), requestID)))
		})
	}
}

// MetricsMiddleware records request counts and latency per route template
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			m.ObserveRequest(r.Method, routeTemplate(r), ww.statusCode, time.Since(start))
		})
	}
}

// SecurityHeadersMiddleware adds security headers to responses. The swagger
// UI needs inline scripts, so it gets no Content-Security-Policy.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if !strings.HasPrefix(r.URL.Path, swaggerPathPrefix) {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetupCORS creates and configures CORS middleware
func SetupCORS(config *MiddlewareConfig) func(http.Handler) http.Handler {
	if !config.EnableCORS {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(config.CORSOptions)
	return c.Handler
}
