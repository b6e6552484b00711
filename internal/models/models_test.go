// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		code EventType
		want string
	}{
		{EventCongestion, "congestion"},
		{EventSuspicious, "suspicious activity"},
		{EventIllegalParking, "illegal parking"},
		{EventAccident, "accident"},
		{EventPedestrianCrossing, "pedestrian crossing"},
		{EventType(0), "unknown"},
		{EventType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestIngestRequest_Decode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		location   int64
		eventType  int64
		factorText string
		factorRaw  string
		snapshot   string
	}{
		{
			name:       "strings everywhere",
			body:       `{"location_id":"3","event_type":"4","event_factor":"0.87","snapshot":"aGVsbG8="}`,
			location:   3,
			eventType:  4,
			factorText: "0.87",
			factorRaw:  `"0.87"`,
			snapshot:   "aGVsbG8=",
		},
		{
			name:       "numbers",
			body:       `{"location_id":3,"event_type":1,"event_factor":0.5,"snapshot":null}`,
			location:   3,
			eventType:  1,
			factorText: "0.5",
			factorRaw:  `0.5`,
		},
		{
			name:       "snapshot absent",
			body:       `{"location_id":7,"event_type":2,"event_factor":"high"}`,
			location:   7,
			eventType:  2,
			factorText: "high",
			factorRaw:  `"high"`,
		},
		{name: "fractional location", body: `{"location_id":1.5,"event_type":1,"event_factor":"x"}`, wantErr: true},
		{name: "non numeric type", body: `{"location_id":1,"event_type":"crash","event_factor":"x"}`, wantErr: true},
		{name: "boolean factor", body: `{"location_id":1,"event_type":1,"event_factor":true}`, wantErr: true},
		{name: "object factor", body: `{"location_id":1,"event_type":1,"event_factor":{"a":1}}`, wantErr: true},
		{name: "not json", body: `location_id=1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req IngestRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) = nil error, want error", tt.body)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.body, err)
			}
			if req.LocationID.Int64() != tt.location {
				t.Errorf("LocationID = %d, want %d", req.LocationID.Int64(), tt.location)
			}
			if req.EventType.Int64() != tt.eventType {
				t.Errorf("EventType = %d, want %d", req.EventType.Int64(), tt.eventType)
			}
			if req.EventFactor.String() != tt.factorText {
				t.Errorf("EventFactor.String() = %q, want %q", req.EventFactor.String(), tt.factorText)
			}
			raw, err := json.Marshal(req.EventFactor)
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) != tt.factorRaw {
				t.Errorf("EventFactor JSON = %s, want %s", raw, tt.factorRaw)
			}
			if req.SnapshotPayload() != tt.snapshot {
				t.Errorf("SnapshotPayload() = %q, want %q", req.SnapshotPayload(), tt.snapshot)
			}
		})
	}
}

func TestNotificationJSON(t *testing.T) {
	var req IngestRequest
	body := `{"location_id":"3","event_type":"4","event_factor":"0.87","snapshot":"aGVsbG8="}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}

	dt := time.Date(2026, 10, 18, 14, 3, 27, 0, time.UTC)
	out, err := json.Marshal(NewNotification(&req, dt))
	if err != nil {
		t.Fatal(err)
	}

	want := `{"snapshot":"aGVsbG8=","factor":"0.87","location_id":3,"type":4,"dt":"2026-10-18 14:03:27"}`
	if string(out) != want {
		t.Errorf("notification = %s\nwant           %s", out, want)
	}
}

func TestNotificationJSON_NullSnapshot(t *testing.T) {
	req := IngestRequest{EventFactor: NewStringFactor("low")}
	one, five := FlexInt(1), FlexInt(5)
	req.LocationID, req.EventType = &one, &five

	out, err := json.Marshal(NewNotification(&req, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"snapshot":null`) {
		t.Errorf("expected null snapshot, got %s", out)
	}
	if !strings.Contains(string(out), `"factor":"low"`) {
		t.Errorf("expected string factor, got %s", out)
	}
}

func TestCountNotificationJSON(t *testing.T) {
	out, err := json.Marshal(CountNotification{NumEvent: 12})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"num_event":12}` {
		t.Errorf("got %s", out)
	}
}
