package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tair/smart-inventory/pkg/logger"
)

// quietPaths are polled by infrastructure and only logged at debug level
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware logs one line per request with its route, status and size
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		ctx := r.Context()
		duration := time.Since(start)

		var event *zerolog.Event
		switch {
		case ww.statusCode >= 500:
			event = logger.Error(ctx)
		case ww.statusCode >= 400:
			event = logger.Warn(ctx)
		case quietPaths[r.URL.Path]:
			event = logger.Debug(ctx)
		default:
			event = logger.Info(ctx)
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routeTemplate(r)).
			Int("status", ww.statusCode).
			Int("bytes", ww.bytes).
			Str("remote_addr", r.RemoteAddr).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("HTTP request completed")
	})
}

// routeTemplate returns the matched mux template, or the raw path when no
// route matched
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

// statusRecorder captures the status code and body size of a response
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.statusCode = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}
