// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/insight/internal/models"
)

// storedTimeLayout is how SQLite keeps event times (UTC, second precision).
const storedTimeLayout = "2006-01-02 15:04:05"

const eventColumns = `e.id, e.location_id, e.type, e.factor, e.dt, e.snapshot, e.status`

// EventFilter narrows ListEvents. A nil Status lists every event; Limit 0
// means no limit. Results are newest first.
type EventFilter struct {
	Status *int
	Limit  int
}

// InsertEvent stores ev as a single atomic statement and sets ev.ID.
func (db *DB) InsertEvent(ctx context.Context, ev *models.Event) error {
	query := `INSERT INTO events (location_id, type, factor, dt, snapshot, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := db.conn.QueryRowContext(ctx, query,
		ev.LocationID,
		int(ev.Type),
		ev.Factor,
		db.dialect.timeArg(ev.DT),
		ev.Snapshot,
		ev.Status,
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// CountEvents returns the number of stored events regardless of status.
func (db *DB) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// CountEventsByStatus returns the number of events with the given status.
func (db *DB) CountEventsByStatus(ctx context.Context, status int) (int64, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = ?`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count events with status %d: %w", status, err)
	}
	return n, nil
}

// ListEvents returns events matching filter, newest first.
func (db *DB) ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events e`)
	if filter.Status != nil {
		sb.WriteString(` WHERE e.status = ?`)
		args = append(args, *filter.Status)
	}
	sb.WriteString(` ORDER BY e.id DESC`)
	if filter.Limit > 0 {
		fmt.Fprintf(&sb, ` LIMIT %d`, filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer closeWithLog(rows, "rows")

	events := make([]models.Event, 0)
	for rows.Next() {
		var ev models.Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// GetEvent returns one event with its location name. It returns ErrNotFound
// when no event has the given id. Events pointing at an unknown location
// get an empty LocationName.
func (db *DB) GetEvent(ctx context.Context, id int64) (*models.EventDetail, error) {
	query := `SELECT ` + eventColumns + `, COALESCE(l.name, '')
		FROM events e
		LEFT JOIN locations l ON l.id = e.location_id
		WHERE e.id = ?`

	var detail models.EventDetail
	err := scanEvent(db.conn.QueryRowContext(ctx, query, id), &detail.Event, &detail.LocationName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	detail.TypeLabel = detail.Type.String()
	return &detail, nil
}

// AcknowledgeEvent marks an event as handled. It returns ErrNotFound when no
// event has the given id.
func (db *DB) AcknowledgeEvent(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE events SET status = ? WHERE id = ?`, models.StatusAcknowledged, id)
	if err != nil {
		return fmt.Errorf("failed to acknowledge event %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to acknowledge event %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListLocations returns every known location ordered by id.
func (db *DB) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(lng, 0), COALESCE(lat, 0) FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	locations := make([]models.Location, 0)
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Lng, &loc.Lat); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return locations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent reads eventColumns (plus any extra destinations) into ev.
func scanEvent(row rowScanner, ev *models.Event, extra ...interface{}) error {
	var (
		eventType int
		rawDT     interface{}
	)
	dest := append([]interface{}{
		&ev.ID, &ev.LocationID, &eventType, &ev.Factor, &rawDT, &ev.Snapshot, &ev.Status,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan event: %w", err)
	}

	dt, err := parseStoredTime(rawDT)
	if err != nil {
		return fmt.Errorf("event %d: %w", ev.ID, err)
	}
	ev.Type = models.EventType(eventType)
	ev.DT = dt
	return nil
}

// parseStoredTime accepts DuckDB's native TIMESTAMP and SQLite's text form.
func parseStoredTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected dt type %T", v)
	}
}

func parseTimeText(s string) (time.Time, error) {
	for _, layout := range []string{storedTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable dt %q", s)
}
