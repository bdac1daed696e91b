package middleware

import (
	"net/http"
	"strconv"

	"github.com/SergioPauloA/Volpz/internal/metrics"
)

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics records request counts per method, path, and status. The route
// table is static (/ws, /health, /metrics), so raw paths are already
// low-cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			// The connection gets hijacked for the upgrade; wrapping the
			// writer would hide http.Hijacker, and "request duration" would
			// be the whole session lifetime. The hub keeps its own gauge.
			next.ServeHTTP(w, r)
			return
		}

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, r.URL.Path, strconv.Itoa(wrapped.status),
		).Inc()
	})
}
