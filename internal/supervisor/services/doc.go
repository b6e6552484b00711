// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService: *http.Server with graceful shutdown
//   - FeedHubService: a websocket feed hub
//   - IngestPipelineService: the ingest consumer
//
// Each wrapper depends on a small interface instead of the concrete package
// so tests can supply doubles and the supervisor does not import api,
// websocket or ingest.
package services
