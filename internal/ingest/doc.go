// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package ingest processes detector events after POST /api has answered.

The HTTP handler validates the body and calls Pipeline.Submit, which stamps
the receive time and publishes an Envelope on the in-process watermill topic
(default "events.ingest"). A single router consumer hands each envelope to
the Processor, which for every event:

 1. builds the raw feed notification from the request as received
 2. stores the snapshot image, falling back to the "" sentinel on any error
 3. inserts the event with status 0 through a circuit breaker
 4. broadcasts the notification on the raw feed
 5. counts all events and broadcasts {"num_event": N} on the global feed

Nothing is broadcast unless step 3 succeeded. Persistence failures are
retried with backoff by the router and finally logged and dropped; the HTTP
caller has already received 200 by then.
*/
package ingest
