// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package ingest

import "errors"

var (
	// ErrMalformedPayload is returned for an ingest body that is not valid
	// JSON or fails schema validation. Nothing is stored or broadcast.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrPersistence wraps a failure to store an event, including a rejection
	// by the open circuit breaker.
	ErrPersistence = errors.New("failed to persist event")

	// ErrNotRunning is returned by Submit while the pipeline router is not
	// consuming. Messages published with no consumer would be dropped.
	ErrNotRunning = errors.New("ingest pipeline not running")

	// ErrQueueFull is returned by Submit while ingest.buffer_size messages
	// are already waiting for or undergoing processing.
	ErrQueueFull = errors.New("ingest queue full")
)
