// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package config loads Insight's runtime configuration with koanf.
//
// Sources are layered defaults, then an optional YAML file, then environment
// variables:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//
// Example config.yaml:
//
//	server:
//	  port: 8888
//	database:
//	  driver: sqlite
//	  path: ./insight.db
//	snapshot:
//	  static_root: ./static
//	  dir: snapshots
//
// Common environment variables:
//
//	HTTP_PORT           listen port (default 8888)
//	DB_DRIVER           duckdb or sqlite (default duckdb)
//	DB_PATH             database file (default ./insight.duckdb)
//	STATIC_ROOT         static file root (default ./static)
//	INGEST_RETRY_COUNT  persistence retries per event (default 3)
//	CORS_ORIGINS        comma separated allowed origins for /api/v1
//	LOG_LEVEL           trace, debug, info, warn, error
package config
