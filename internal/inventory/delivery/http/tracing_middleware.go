package http

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TracingMiddleware starts a server span per request, named after the matched
// route so that /api/items/1 and /api/items/2 share one span name.
func TracingMiddleware(operationName string, next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, operationName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + routeTemplate(r)
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !quietPaths[r.URL.Path]
		}),
	)
}
