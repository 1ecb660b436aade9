package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records HTTP metrics labelled by the matched route pattern, so
// ids in paths do not blow up label cardinality.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r)

			// The mux fills Pattern on the request it was handed.
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			metrics.RecordHTTPMetrics(serviceName, r.Method, route, rw.Status(), time.Since(start))
		})
	}
}
