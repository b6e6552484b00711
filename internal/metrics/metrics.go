// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for ingest and store operations.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insight_db_query_duration_seconds",
			Help:    "Duration of event store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_db_query_errors_total",
			Help: "Total number of event store query errors",
		},
		[]string{"operation"},
	)

	// Ingest Metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_events_ingested_total",
			Help: "Total number of ingest requests by outcome",
		},
		[]string{"result"}, // success, failure, invalid
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_events_processed_total",
			Help: "Total number of events run through the processing pipeline",
		},
		[]string{"result"},
	)

	EventProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insight_event_processing_duration_seconds",
			Help:    "Time from dequeue to global count broadcast",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SnapshotsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insight_snapshots_saved_total",
			Help: "Total number of snapshot images written to disk",
		},
	)

	SnapshotFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_snapshot_failures_total",
			Help: "Total number of snapshots that could not be stored",
		},
		[]string{"reason"}, // decode, write
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insight_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insight_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "insight_websocket_subscribers",
			Help: "Current number of registered feed subscribers",
		},
		[]string{"feed"},
	)

	WSBroadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_websocket_broadcasts_total",
			Help: "Total number of messages broadcast to a feed",
		},
		[]string{"feed"},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_websocket_messages_sent_total",
			Help: "Total number of messages accepted by subscriber send buffers",
		},
		[]string{"feed"},
	)

	WSSendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_websocket_send_failures_total",
			Help: "Total number of subscribers dropped because a send failed",
		},
		[]string{"feed"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "insight_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records an event store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIngest records the outcome of a POST to the ingest endpoint.
func RecordIngest(result string) {
	EventsIngested.WithLabelValues(result).Inc()
}

// RecordEventProcessed records one run of the processing pipeline.
func RecordEventProcessed(duration time.Duration, err error) {
	EventProcessingDuration.Observe(duration.Seconds())
	if err != nil {
		EventsProcessed.WithLabelValues(ResultFailure).Inc()
		return
	}
	EventsProcessed.WithLabelValues(ResultSuccess).Inc()
}

// RecordSnapshot records a snapshot store attempt. reason is ignored on success.
func RecordSnapshot(saved bool, reason string) {
	if saved {
		SnapshotsSaved.Inc()
		return
	}
	SnapshotFailures.WithLabelValues(reason).Inc()
}

// SetSubscribers sets the subscriber gauge for a feed.
func SetSubscribers(feed string, n int) {
	WSSubscribers.WithLabelValues(feed).Set(float64(n))
}

// RecordBroadcast records one broadcast and its per-subscriber outcomes.
func RecordBroadcast(feed string, delivered, failed int) {
	WSBroadcasts.WithLabelValues(feed).Inc()
	if delivered > 0 {
		WSMessagesSent.WithLabelValues(feed).Add(float64(delivered))
	}
	if failed > 0 {
		WSSendFailures.WithLabelValues(feed).Add(float64(failed))
	}
}

// RecordCircuitBreakerRequest counts a call through the named breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a state change and updates the state gauge.
// States are the gobreaker names: closed, half-open, open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
