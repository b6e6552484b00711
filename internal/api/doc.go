// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package api provides the HTTP layer: the detector ingest endpoint, the two
live feed endpoints and the read-only event API used by dashboards.

Routes:

	POST /api                        ingest one detector event
	GET  /ws                         raw event feed (websocket)
	GET  /ws_global                  event count feed (websocket)
	GET  /api/v1/events              list events, ?status=0 for unread, ?limit=N
	GET  /api/v1/events/count        {"total": N, "unread": M}
	GET  /api/v1/events/{id}         one event with location name
	POST /api/v1/events/{id}/ack     acknowledge an event
	GET  /api/v1/locations           monitored locations
	GET  /api/v1/health/live         liveness probe
	GET  /api/v1/health/ready        readiness probe
	GET  /metrics                    Prometheus metrics
	GET  /static/*                   stored snapshot images

POST /api answers with an empty 200 as soon as the body validates. Bodies
that are not JSON, lack a required field, or carry a non-integer
location_id/event_type get a 400 with a VALIDATION_ERROR body and nothing is
stored.

The /api/v1 endpoints respond with the models.APIResponse envelope:

	{"status":"success","data":{"total":12,"unread":3},"metadata":{"timestamp":"...","query_time_ms":1}}

Middleware order is RequestID, RealIP, Recoverer and RequestLogger for every
route; /api/v1 adds CORS, security headers and Prometheus instrumentation,
and the query endpoints are additionally rate limited per IP and gzip
compressed.
*/
package api
