// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Config is built once by Load() and is read-only afterwards, so it is safe
// to share between goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Snapshot  SnapshotConfig  `koanf:"snapshot"`
	Ingest    IngestConfig    `koanf:"ingest"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Supported database drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// DatabaseConfig selects and tunes the event record store.
type DatabaseConfig struct {
	// Driver is "duckdb" (default) or "sqlite".
	Driver string `koanf:"driver"`
	// Path is the database file. ":memory:" gives a throwaway in-process database.
	Path string `koanf:"path"`
	// MaxMemory and Threads only apply to DuckDB.
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// SnapshotConfig controls where decoded event snapshots are written.
// Files land in <static_root>/<dir>; stored paths are relative to static_root
// so that they resolve under the /static/ URL prefix.
type SnapshotConfig struct {
	StaticRoot string `koanf:"static_root"`
	Dir        string `koanf:"dir"`
}

// IngestConfig tunes the background half of POST /api.
type IngestConfig struct {
	Topic           string        `koanf:"topic"`
	BufferSize      int64         `koanf:"buffer_size"`
	RetryCount      int           `koanf:"retry_count"`
	RetryInterval   time.Duration `koanf:"retry_interval"`
	RetryMaxBackoff time.Duration `koanf:"retry_max_backoff"`
	CloseTimeout    time.Duration `koanf:"close_timeout"`

	// Circuit breaker around event persistence.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// WebSocketConfig tunes the live feed connections.
type WebSocketConfig struct {
	SendBuffer     int           `koanf:"send_buffer"`
	WriteWait      time.Duration `koanf:"write_wait"`
	PongWait       time.Duration `koanf:"pong_wait"`
	MaxMessageSize int64         `koanf:"max_message_size"`
}

// PingPeriod returns the keepalive interval, which must be shorter than PongWait.
func (w WebSocketConfig) PingPeriod() time.Duration {
	return (w.PongWait * 9) / 10
}

// SecurityConfig covers the read-only query API. The ingestion endpoint and
// the live feeds are deliberately open.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Load reads configuration from, in increasing priority:
//  1. Built-in defaults
//  2. A YAML config file (CONFIG_PATH, or the first of DefaultConfigPaths that exists)
//  3. Environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
