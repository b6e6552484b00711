// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package logging provides the zerolog-based structured logger shared by every
// Insight component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("port", 8888).Msg("Server starting")
//	logging.Error().Err(err).Msg("Event persistence failed")
//	logging.Ctx(ctx).Warn().Msg("Snapshot decode failed")
//
// Always terminate chains with .Msg() or .Send(); an unterminated event is
// never written.
//
// # Adapters
//
// Two adapters let libraries with their own logger interfaces write through
// the same zerolog backend:
//
//   - SlogHandler / NewSlogLogger for the suture supervisor tree (sutureslog)
//   - WatermillAdapter for the ingest pipeline's watermill router
//
// # Context
//
// The request id middleware stores request and correlation ids in the request
// context; Ctx(ctx) adds them to every line written through it. The ingest
// pipeline carries the correlation id in message metadata so that the
// background half of an ingestion logs under the same id as its HTTP half.
package logging
