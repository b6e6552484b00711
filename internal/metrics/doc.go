// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package metrics provides Prometheus instrumentation for the incident service.

All collectors are registered on the default registry through promauto and
exposed by the API router at the configured metrics path (default /metrics):

	curl http://localhost:8888/metrics

# Available Metrics

Ingest:
  - insight_events_ingested_total{result}: POST /api outcomes (success, failure, invalid)
  - insight_events_processed_total{result}: pipeline runs
  - insight_event_processing_duration_seconds: dequeue to count broadcast
  - insight_snapshots_saved_total, insight_snapshot_failures_total{reason}

Event store:
  - insight_db_query_duration_seconds{operation}
  - insight_db_query_errors_total{operation}

HTTP:
  - insight_api_requests_total{method,endpoint,status_code}
  - insight_api_request_duration_seconds{method,endpoint}
  - insight_api_active_requests
  - insight_api_rate_limit_hits_total{endpoint}

Live feeds (feed is "raw" or "global"):
  - insight_websocket_subscribers{feed}
  - insight_websocket_broadcasts_total{feed}
  - insight_websocket_messages_sent_total{feed}
  - insight_websocket_send_failures_total{feed}

Circuit breaker:
  - insight_circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - insight_circuit_breaker_requests_total{name,result}
  - insight_circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

Helpers wrap the raw collectors so call sites stay one line:

	start := time.Now()
	id, err := db.InsertEvent(ctx, ev)
	metrics.RecordDBQuery("insert_event", time.Since(start), err)
*/
package metrics
