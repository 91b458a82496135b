package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clubsite",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	mediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Media uploads by folder and outcome.",
		},
		[]string{"folder", "outcome"},
	)

	mediaOptimizationFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "media",
			Name:      "optimization_fallbacks_total",
			Help:      "Uploads stored as original bytes because optimization failed.",
		},
	)

	mediaDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "media",
			Name:      "deletes_total",
			Help:      "Media asset deletions by source and outcome.",
		},
		[]string{"source", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		mediaUploads,
		mediaOptimizationFallbacks,
		mediaDeletes,
	)
}

// Handler exposes the registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordUpload(folder, outcome string) {
	mediaUploads.WithLabelValues(folder, outcome).Inc()
}

func RecordOptimizationFallback() {
	mediaOptimizationFallbacks.Inc()
}

func RecordMediaDelete(source, outcome string) {
	mediaDeletes.WithLabelValues(source, outcome).Inc()
}
