// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks handler latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pitwall_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TelemetryRequestsTotal counts calls to the lap-data source.
	TelemetryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_telemetry_requests_total",
			Help: "Requests to the lap data source by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// SessionExportsTotal counts /f1/session exports by outcome.
	SessionExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_session_exports_total",
			Help: "F1 session exports by outcome",
		},
		[]string{"outcome"},
	)
)
