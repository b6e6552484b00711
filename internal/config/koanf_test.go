// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverDuckDB {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Snapshot.Dir != "snapshots" {
		t.Errorf("Snapshot.Dir = %q, want snapshots", cfg.Snapshot.Dir)
	}
	if cfg.Ingest.Topic != "events.ingest" {
		t.Errorf("Ingest.Topic = %q, want events.ingest", cfg.Ingest.Topic)
	}
	if cfg.WebSocket.PongWait != 60*time.Second {
		t.Errorf("WebSocket.PongWait = %v, want 60s", cfg.WebSocket.PongWait)
	}
	if cfg.WebSocket.PingPeriod() != 54*time.Second {
		t.Errorf("WebSocket.PingPeriod() = %v, want 54s", cfg.WebSocket.PingPeriod())
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DB_DRIVER", "database.driver"},
		{"DUCKDB_PATH", "database.path"},
		{"STATIC_ROOT", "snapshot.static_root"},
		{"INGEST_RETRY_COUNT", "ingest.retry_count"},
		{"WS_PONG_WAIT", "websocket.pong_wait"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("INGEST_RETRY_INTERVAL", "250ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Ingest.RetryInterval != 250*time.Millisecond {
		t.Errorf("Ingest.RetryInterval = %v, want 250ms", cfg.Ingest.RetryInterval)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
snapshot:
  static_root: /srv/insight/static
  dir: shots
websocket:
  send_buffer: 32
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// env beats file
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.Snapshot.StaticRoot != "/srv/insight/static" || cfg.Snapshot.Dir != "shots" {
		t.Errorf("Snapshot = %+v, want file values", cfg.Snapshot)
	}
	if cfg.WebSocket.SendBuffer != 32 {
		t.Errorf("WebSocket.SendBuffer = %d, want 32", cfg.WebSocket.SendBuffer)
	}
	// untouched defaults survive
	if cfg.Ingest.Topic != "events.ingest" {
		t.Errorf("Ingest.Topic = %q, want default", cfg.Ingest.Topic)
	}
}

func TestLoadWithKoanf_InvalidDriver(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for unsupported driver")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"absolute snapshot dir", func(c *Config) { c.Snapshot.Dir = "/tmp/x" }, true},
		{"escaping snapshot dir", func(c *Config) { c.Snapshot.Dir = "../x" }, true},
		{"nested snapshot dir", func(c *Config) { c.Snapshot.Dir = "img/events" }, false},
		{"zero buffer", func(c *Config) { c.Ingest.BufferSize = 0 }, true},
		{"zero breaker", func(c *Config) { c.Ingest.BreakerFailures = 0 }, true},
		{"zero send buffer", func(c *Config) { c.WebSocket.SendBuffer = 0 }, true},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, true},
		{"rate limit zero but disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8888}
	if got := s.Addr(); got != "127.0.0.1:8888" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8888", got)
	}
}
