// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package cache provides a small TTL cache for read endpoints.
//
// The API keeps event details and the location list here. Event details are
// deleted when the event is acknowledged; the location list is only changed
// outside this service and simply expires.
package cache
