// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/insight/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only when the event store answers and the ingest pipeline
// is consuming; 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbStatus := "connected"
	dbOK := h.store != nil && h.store.Ping(ctx) == nil
	if !dbOK {
		dbStatus = "unavailable"
	}
	ingestRunning := h.ingest != nil && h.ingest.IsRunning()

	health := models.HealthStatus{
		Status:        "ready",
		Database:      dbStatus,
		IngestRunning: ingestRunning,
	}
	if h.rawHub != nil {
		health.RawSubscribers = h.rawHub.GetClientCount()
	}
	if h.globalHub != nil {
		health.GlobalListeners = h.globalHub.GetClientCount()
	}

	statusCode := http.StatusOK
	if !dbOK || !ingestRunning {
		statusCode = http.StatusServiceUnavailable
		health.Status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: health.Status,
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
