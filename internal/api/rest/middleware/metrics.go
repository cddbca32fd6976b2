package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck/pkg/metrics"
)

// Metrics returns a middleware that records HTTP metrics
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			statusStr := strconv.Itoa(ww.Status())

			m.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				r.URL.Path,
				statusStr,
			).Inc()

			m.HTTPDuration.WithLabelValues(
				r.Method,
				r.URL.Path,
			).Observe(duration)

			if responseSize := ww.BytesWritten(); responseSize > 0 {
				m.HTTPResponseSize.WithLabelValues(
					r.Method,
					r.URL.Path,
					statusStr,
				).Observe(float64(responseSize))
			}
		})
	}
}
