package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver records served requests. *metrics.Metrics implements it.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Metrics records method, route pattern, status and latency of each request.
// It must wrap the ServeMux directly: the mux stores the matched pattern on the
// request it is handed, and unmatched requests are reported as "unmatched".
func Metrics(observer HTTPObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTP(r.Method, route, wrapped.status, time.Since(start))
	})
}
