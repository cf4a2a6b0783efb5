// Package metrics provides Prometheus metrics for the graph build and the
// HTTP surface:
//   - ingest_lines_total: Counter with dataset and result labels
//   - graph_build_duration_seconds: Histogram of complete builds
//   - graph_build_errors_total: Counter of aborted builds
//   - graph_entities: Gauge with entity label, set after each published build
//   - http_request_total, http_request_duration_seconds, http_request_in_flight
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	IngestLinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_lines_total",
			Help: "Dataset lines read during graph builds",
		},
		[]string{"dataset", "result"},
	)

	GraphBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graph_build_duration_seconds",
			Help:    "Duration of complete graph builds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		},
	)

	GraphBuildErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_build_errors_total",
			Help: "Graph builds aborted by a fatal error",
		},
	)

	GraphEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_entities",
			Help: "Number of entities in the published graph",
		},
		[]string{"entity"},
	)

	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen since the last cleanup)",
		},
	)
)

func init() {
	prometheus.MustRegister(IngestLinesTotal)
	prometheus.MustRegister(GraphBuildDuration)
	prometheus.MustRegister(GraphBuildErrors)
	prometheus.MustRegister(GraphEntities)
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
