// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package models

import (
	"strconv"
	"time"
)

// Event status values.
const (
	StatusNew          = 0
	StatusAcknowledged = 1
)

// NoSnapshot is stored in Event.Snapshot when no image file exists for the event.
const NoSnapshot = ""

// DisplayTimeLayout is the second-precision layout used on the live feeds.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// EventType is the category code reported by detectors.
type EventType int

// Known categories. Other codes are stored and broadcast unchanged.
const (
	EventCongestion         EventType = 1
	EventSuspicious         EventType = 2
	EventIllegalParking     EventType = 3
	EventAccident           EventType = 4
	EventPedestrianCrossing EventType = 5
)

var eventTypeLabels = map[EventType]string{
	EventCongestion:         "congestion",
	EventSuspicious:         "suspicious activity",
	EventIllegalParking:     "illegal parking",
	EventAccident:           "accident",
	EventPedestrianCrossing: "pedestrian crossing",
}

// String returns the human label, or "unknown" for unlisted codes.
func (t EventType) String() string {
	if label, ok := eventTypeLabels[t]; ok {
		return label
	}
	return "unknown"
}

// Code returns the numeric code as a string, as used in snapshot file names.
func (t EventType) Code() string {
	return strconv.Itoa(int(t))
}

// Event is one stored incident.
//
// ID is assigned by the store. DT is server time at ingestion, truncated to
// the second. Snapshot is a path relative to the static root, or NoSnapshot.
type Event struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	Type       EventType `json:"type"`
	Factor     string    `json:"factor"`
	DT         time.Time `json:"dt"`
	Snapshot   string    `json:"snapshot"`
	Status     int       `json:"status"`
}

// EventDetail is an Event joined with its location for display.
type EventDetail struct {
	Event
	LocationName string `json:"location"`
	TypeLabel    string `json:"type_label"`
}

// EventCounts summarises the events table.
type EventCounts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// Location is a monitored site. Events reference it by id only.
type Location struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
}
