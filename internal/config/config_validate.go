// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/tomtom215/insight/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSnapshot(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateWebSocket(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverSQLite, c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if c.Snapshot.StaticRoot == "" {
		return fmt.Errorf("STATIC_ROOT is required")
	}
	dir := c.Snapshot.Dir
	if dir == "" || path.IsAbs(dir) || strings.HasPrefix(path.Clean(dir), "..") {
		return fmt.Errorf("SNAPSHOT_DIR must be a relative path inside STATIC_ROOT, got %q", dir)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.Topic == "" {
		return fmt.Errorf("INGEST_TOPIC is required")
	}
	if c.Ingest.BufferSize < 1 {
		return fmt.Errorf("INGEST_BUFFER_SIZE must be at least 1, got %d", c.Ingest.BufferSize)
	}
	if c.Ingest.RetryCount < 0 {
		return fmt.Errorf("INGEST_RETRY_COUNT must not be negative, got %d", c.Ingest.RetryCount)
	}
	if c.Ingest.BreakerFailures == 0 {
		return fmt.Errorf("INGEST_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	if c.WebSocket.SendBuffer < 1 {
		return fmt.Errorf("WS_SEND_BUFFER must be at least 1, got %d", c.WebSocket.SendBuffer)
	}
	if c.WebSocket.WriteWait <= 0 || c.WebSocket.PongWait <= 0 {
		return fmt.Errorf("WS_WRITE_WAIT and WS_PONG_WAIT must be positive")
	}
	if c.WebSocket.MaxMessageSize < 1 {
		return fmt.Errorf("WS_MAX_MESSAGE_SIZE must be positive, got %d", c.WebSocket.MaxMessageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
