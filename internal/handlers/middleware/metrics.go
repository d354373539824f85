package middleware

import (
	"net/http"
	"time"
)

// observeFunc receives request route pattern, e.g. "GET /api/v1/accounts/{id}"
type observeFunc func(method string, route string, status int, d time.Duration)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// MetricsMiddleware reports every request duration.
// Route is the matched ServeMux pattern, so it has to wrap the mux that routes the request
func MetricsMiddleware(observe observeFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			observe(r.Method, route, sw.status, time.Since(start))
		})
	}
}
