package middleware

import (
	"net/http"
	"time"

	"github.com/templui/goalvoice/internal/metrics"
)

// Metrics records request counts and latency by route pattern. It must wrap
// the ServeMux directly so the matched pattern is visible after serving.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, rw.statusCode, time.Since(start))
		})
	}
}
