// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// IngestRequest is the body of POST /api.
//
// Detectors send location_id and event_type either as JSON numbers or as
// numeric strings, and event_factor as either a string or a number. snapshot
// is a standard base64 image, or null/absent when the detector has no frame.
// location_id is an opaque key: any integer is accepted.
type IngestRequest struct {
	LocationID  *FlexInt `json:"location_id" validate:"required"`
	EventType   *FlexInt `json:"event_type" validate:"required,gte=0"`
	EventFactor *Factor  `json:"event_factor" validate:"required"`
	Snapshot    *string  `json:"snapshot"`
}

// SnapshotPayload returns the base64 snapshot, or "" when none was sent.
func (r *IngestRequest) SnapshotPayload() string {
	if r.Snapshot == nil {
		return ""
	}
	return *r.Snapshot
}

// FlexInt is an integer that also accepts a quoted decimal string.
type FlexInt int64

// UnmarshalJSON accepts 12 and "12". Fractions, exponents and other strings
// are rejected.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*n = FlexInt(v)
	return nil
}

// Int64 returns the value as int64.
func (n FlexInt) Int64() int64 { return int64(n) }

var errFactorType = errors.New("event_factor must be a string or a number")

// Factor is the detector's opaque severity or confidence value. It remembers
// the JSON token it arrived as so that live feed messages echo it unchanged.
type Factor struct {
	raw  []byte
	text string
}

// NewStringFactor builds a Factor as if the string s had been received.
func NewStringFactor(s string) *Factor {
	raw, _ := json.Marshal(s)
	return &Factor{raw: raw, text: s}
}

// UnmarshalJSON accepts a JSON string or number.
func (f *Factor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errFactorType
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.text = s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return errFactorType
		}
		f.text = string(data)
	default:
		return errFactorType
	}
	f.raw = append([]byte(nil), data...)
	return nil
}

// MarshalJSON writes the original token back out.
func (f Factor) MarshalJSON() ([]byte, error) {
	if f.raw == nil {
		return []byte(`""`), nil
	}
	return f.raw, nil
}

// String returns the stored text form: the string itself, or the number's literal.
func (f *Factor) String() string {
	if f == nil {
		return ""
	}
	return f.text
}
