// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

// Package metrics provides Prometheus metrics collection for observability.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format:
//
//	curl http://localhost:5000/metrics
//
// Available metrics:
//   - api_requests_total{method,endpoint,status_code}
//   - api_request_duration_seconds{method,endpoint}
//   - api_active_requests
//   - jellyfin_api_calls_total{endpoint,status}
//   - jellyfin_api_call_duration_seconds{endpoint}
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Jellyfin API metrics
	JellyfinAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jellyfin_api_calls_total",
			Help: "Total number of Jellyfin API calls",
		},
		[]string{"endpoint", "status"},
	)

	JellyfinAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jellyfin_api_call_duration_seconds",
			Help:    "Jellyfin API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordJellyfinCall records an upstream Jellyfin API call.
// A transport-level failure is recorded with status "error".
func RecordJellyfinCall(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	JellyfinAPICalls.WithLabelValues(endpoint, status).Inc()
	JellyfinAPICallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
