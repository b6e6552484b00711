// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package database is the event record store.
//
// Two engines are supported through database/sql: DuckDB (the default, via
// github.com/duckdb/duckdb-go/v2) and pure-Go SQLite (modernc.org/sqlite) for
// hosts without CGO. The driver is chosen by database.driver in the config.
//
// Tables:
//   - events: one row per ingested incident; id assigned on insert
//   - locations: monitored sites, read for event detail lookups
//   - departments: responsible units, maintained by external tooling
//
// Every InsertEvent is a single statement, so a crash can never leave a half
// written event, and concurrent inserts always receive distinct ids.
package database
