// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package models

import (
	"time"
)

// APIResponse is the envelope returned by every /api/v1 endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total": 128, "unread": 5},
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z", "query_time_ms": 2}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "event 42 not found"},
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes in use: VALIDATION_ERROR, NOT_FOUND, DATABASE_ERROR, SERVICE_UNAVAILABLE.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness probe.
type HealthStatus struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	IngestRunning   bool   `json:"ingest_running"`
	RawSubscribers  int    `json:"raw_subscribers"`
	GlobalListeners int    `json:"global_subscribers"`
}
