// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"context"
	"time"

	"github.com/tomtom215/insight/internal/cache"
	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/database"
	"github.com/tomtom215/insight/internal/models"
	ws "github.com/tomtom215/insight/internal/websocket"
)

// EventStore is the read and acknowledge side of the event store.
type EventStore interface {
	Ping(ctx context.Context) error
	ListEvents(ctx context.Context, filter database.EventFilter) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.EventDetail, error)
	CountEvents(ctx context.Context) (int64, error)
	CountEventsByStatus(ctx context.Context, status int) (int64, error)
	AcknowledgeEvent(ctx context.Context, id int64) error
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// Ingester accepts validated requests for background processing.
type Ingester interface {
	Submit(ctx context.Context, req *models.IngestRequest) error
	IsRunning() bool
}

// CountBroadcaster pushes the current event total to the global feed.
type CountBroadcaster interface {
	BroadcastCount(ctx context.Context)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_ingest.go: POST /api
//   - handlers_events.go: event query and acknowledgement endpoints
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	config    *config.Config
	store     EventStore
	ingest    Ingester
	counts    CountBroadcaster
	rawHub    *ws.Hub
	globalHub *ws.Hub
	cache     *cache.Cache
	startTime time.Time
}

// readCacheTTL bounds how stale a cached event detail or location list may be.
const readCacheTTL = 30 * time.Second

// NewHandler creates a new API handler.
//
//	handler := api.NewHandler(cfg, db, pipeline, processor, rawHub, globalHub)
//	srv := &http.Server{Handler: api.NewRouter(handler)}
func NewHandler(cfg *config.Config, store EventStore, ingest Ingester, counts CountBroadcaster, rawHub, globalHub *ws.Hub) *Handler {
	return &Handler{
		config:    cfg,
		store:     store,
		ingest:    ingest,
		counts:    counts,
		rawHub:    rawHub,
		globalHub: globalHub,
		cache:     cache.New(readCacheTTL),
		startTime: time.Now(),
	}
}
