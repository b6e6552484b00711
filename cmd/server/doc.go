// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package main is the entry point for the Insight server.

Insight receives incident reports from roadside detectors, stores them,
keeps optional snapshot images on disk, and pushes every new event to
dashboards over two websocket feeds.

# Startup

 1. Configuration: Koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog
 3. Event store: DuckDB by default, SQLite with DB_DRIVER=sqlite
 4. Snapshot store under STATIC_ROOT
 5. Feed hubs "raw" and "global", ingest processor and pipeline
 6. Supervisor tree (suture v4) running the hubs, the pipeline and the
    HTTP server

# Configuration

Common environment variables:

	HTTP_HOST, HTTP_PORT        listen address (default 0.0.0.0:8888)
	DB_DRIVER, DB_PATH          duckdb or sqlite, database file
	STATIC_ROOT, SNAPSHOT_DIR   where snapshot images are written
	LOG_LEVEL, LOG_FORMAT       zerolog level, json or console
	CONFIG_PATH                 YAML config file

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server is shut down
gracefully, feed subscribers receive a going-away close frame, the ingest
router drains within its close timeout, and the database is closed last.
*/
package main
