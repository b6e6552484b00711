// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package models

import "time"

// Notification is pushed to raw feed subscribers for each ingested event.
// Snapshot carries the original base64 payload, not the stored file path.
type Notification struct {
	Snapshot   *string   `json:"snapshot"`
	Factor     *Factor   `json:"factor"`
	LocationID int64     `json:"location_id"`
	Type       EventType `json:"type"`
	DT         string    `json:"dt"`
}

// NewNotification builds the raw feed message for req received at dt.
func NewNotification(req *IngestRequest, dt time.Time) Notification {
	return Notification{
		Snapshot:   req.Snapshot,
		Factor:     req.EventFactor,
		LocationID: req.LocationID.Int64(),
		Type:       EventType(req.EventType.Int64()),
		DT:         dt.Format(DisplayTimeLayout),
	}
}

// CountNotification is pushed to global feed subscribers.
type CountNotification struct {
	NumEvent int64 `json:"num_event"`
}
