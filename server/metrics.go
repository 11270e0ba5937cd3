package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	handoffMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_handoff_messages_total",
			Help: "Cross-origin handoff messages by verdict",
		},
		[]string{"verdict"},
	)

	leadActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_lead_actions_total",
			Help: "Lead claim/book actions by outcome",
		},
		[]string{"action", "outcome"},
	)
)

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Metrics records request counts and latencies per route
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func recordHandoff(verdict string) {
	handoffMessages.WithLabelValues(verdict).Inc()
}

func recordLeadAction(action, outcome string) {
	leadActions.WithLabelValues(action, outcome).Inc()
}
