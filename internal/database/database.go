// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/logging"
)

const memoryPath = ":memory:"

// DB is the event record store. It speaks to either DuckDB or SQLite through
// database/sql; the dialect only changes the schema and how timestamps are bound.
type DB struct {
	conn    *sql.DB
	cfg     *config.DatabaseConfig
	dialect dialect
}

// New opens the configured database and creates the schema if needed.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.Path != memoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open(d.driverName(), d.dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	d.configurePool(conn, cfg)

	db := &DB{conn: conn, cfg: cfg, dialect: d}

	ctx, cancel := schemaContext()
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	if err := db.createTables(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("path", cfg.Path).
		Msg("Event store ready")
	return db, nil
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.cfg.Driver
}

// Conn exposes the underlying handle for tests and maintenance tooling.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// dialect captures what differs between the two supported engines.
type dialect interface {
	driverName() string
	dsn(cfg *config.DatabaseConfig) string
	configurePool(conn *sql.DB, cfg *config.DatabaseConfig)
	schema() []string
	timeArg(t time.Time) interface{}
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverDuckDB, "":
		return duckDialect{}, nil
	case config.DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type duckDialect struct{}

func (duckDialect) driverName() string { return "duckdb" }

func (duckDialect) dsn(cfg *config.DatabaseConfig) string {
	path := cfg.Path
	if path == memoryPath {
		path = ""
	}
	q := url.Values{}
	q.Set("access_mode", "read_write")
	if cfg.MaxMemory != "" {
		q.Set("max_memory", cfg.MaxMemory)
	}
	if cfg.Threads > 0 {
		q.Set("threads", strconv.Itoa(cfg.Threads))
	}
	return path + "?" + q.Encode()
}

func (duckDialect) configurePool(conn *sql.DB, _ *config.DatabaseConfig) {
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(4)
	conn.SetConnMaxLifetime(0)
}

func (duckDialect) timeArg(t time.Time) interface{} { return t.UTC() }

type sqliteDialect struct{}

func (sqliteDialect) driverName() string { return "sqlite" }

func (sqliteDialect) dsn(cfg *config.DatabaseConfig) string {
	if cfg.Path == memoryPath {
		return "file::memory:?_pragma=foreign_keys(ON)"
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Path)
}

// SQLite serialises writers anyway; one connection also keeps an in-memory
// database alive for the life of the pool.
func (sqliteDialect) configurePool(conn *sql.DB, _ *config.DatabaseConfig) {
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)
}

func (sqliteDialect) timeArg(t time.Time) interface{} {
	return t.UTC().Format(storedTimeLayout)
}
