package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps each request in an otelhttp span named after chi's matched
// route pattern rather than the raw path, so e.g. GET /api/orders/{id}
// stays one low-cardinality span name regardless of which order id is hit.
// chi fills in the route pattern only once routing has run, so the span
// starts under the raw path and is renamed after the handler returns; a
// request with no chi route keeps the raw path.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			renamed := http.HandlerFunc(func(w2 http.ResponseWriter, r2 *http.Request) {
				next.ServeHTTP(w2, r2)
				if rctx := chi.RouteContext(r2.Context()); rctx != nil && rctx.RoutePattern() != "" {
					trace.SpanFromContext(r2.Context()).SetName(fmt.Sprintf("%s %s", r2.Method, rctx.RoutePattern()))
				}
			})
			otelhttp.NewHandler(renamed, fmt.Sprintf("%s %s", r.Method, r.URL.Path)).ServeHTTP(w, r)
		})
	}
}
