// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// createTables runs the dialect's CREATE ... IF NOT EXISTS statements in order.
func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range db.dialect.schema() {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// DuckDB has no AUTOINCREMENT; ids come from a sequence and inserts read them
// back with RETURNING.
func (duckDialect) schema() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS events_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT PRIMARY KEY DEFAULT nextval('events_id_seq'),
			location_id BIGINT NOT NULL,
			type INTEGER NOT NULL,
			factor VARCHAR NOT NULL DEFAULT '',
			dt TIMESTAMP NOT NULL,
			snapshot VARCHAR NOT NULL DEFAULT '',
			status INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGINT PRIMARY KEY,
			name VARCHAR NOT NULL,
			lng DOUBLE,
			lat DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id BIGINT PRIMARY KEY,
			name VARCHAR NOT NULL,
			person VARCHAR,
			phone VARCHAR,
			mobile VARCHAR,
			email VARCHAR
		)`,
	}
}

func (sqliteDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_id INTEGER NOT NULL,
			type INTEGER NOT NULL,
			factor TEXT NOT NULL DEFAULT '',
			dt TEXT NOT NULL,
			snapshot TEXT NOT NULL DEFAULT '',
			status INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			lng REAL,
			lat REAL
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			person TEXT,
			phone TEXT,
			mobile TEXT,
			email TEXT
		)`,
	}
}
