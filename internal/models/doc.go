// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package models defines the data structures shared across Insight.

Key types:

  - Event: one stored traffic incident (the events table row)
  - EventType: category code with presentation labels
  - IngestRequest: the POST /api payload, with lenient number/string fields
  - Notification, CountNotification: messages pushed on the live feeds
  - EventDetail: an event joined with its location, for the query API
  - APIResponse: the envelope used by every /api/v1 endpoint

Wire formats:

Raw feed (/ws), one message per ingested event:

	{"snapshot":"<base64 or null>","factor":"0.87","location_id":3,"type":4,"dt":"2026-10-18 14:03:27"}

Global feed (/ws_global), sent after every ingestion:

	{"num_event":128}
*/
package models
