package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ekaya-inc/element-catalog/pkg/metrics"
)

// Metrics returns middleware that records request counts and latencies.
// Requests are labelled by the mux pattern they matched, so ids in paths
// do not explode label cardinality.
func Metrics(m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.Begin()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			// ServeMux fills in r.Pattern while routing.
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			done(r.Method, route, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
		})
	}
}

// Chain applies middlewares so that the first one listed is outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
