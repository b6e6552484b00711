// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/insight/internal/cache"
	"github.com/tomtom215/insight/internal/database"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/metrics"
	"github.com/tomtom215/insight/internal/models"
)

// eventListQuery holds the validated query parameters of GET /api/v1/events.
type eventListQuery struct {
	Status *int `json:"status" validate:"omitempty,gte=0"`
	Limit  int  `json:"limit" validate:"gte=0,lte=10000"`
}

// ListEvents handles GET /api/v1/events. ?status=0 lists unread events only;
// ?limit=N caps the result. Events are newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	status, ok := getIntParam(r, "status")
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "status must be an integer", nil)
		return
	}
	limit, ok := getIntParam(r, "limit")
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer", nil)
		return
	}

	q := eventListQuery{Status: status}
	if limit != nil {
		q.Limit = *limit
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	start := time.Now()
	events, err := h.store.ListEvents(r.Context(), database.EventFilter{Status: q.Status, Limit: q.Limit})
	metrics.RecordDBQuery("list_events", time.Since(start), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondSuccess(w, events, start)
}

// GetEvent handles GET /api/v1/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "id must be a positive integer", nil)
		return
	}

	start := time.Now()
	key := eventCacheKey(id)
	if cached, ok := h.cache.Get(key); ok {
		respondSuccess(w, cached, start)
		return
	}

	ev, err := h.store.GetEvent(r.Context(), id)
	metrics.RecordDBQuery("get_event", time.Since(start), err)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("event %d not found", id), nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load event", err)
		return
	}
	h.cache.Set(key, ev)
	respondSuccess(w, ev, start)
}

// CountEvents handles GET /api/v1/events/count.
func (h *Handler) CountEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	total, err := h.store.CountEvents(r.Context())
	if err == nil {
		var unread int64
		unread, err = h.store.CountEventsByStatus(r.Context(), models.StatusNew)
		if err == nil {
			metrics.RecordDBQuery("count_events", time.Since(start), nil)
			respondSuccess(w, models.EventCounts{Total: total, Unread: unread}, start)
			return
		}
	}
	metrics.RecordDBQuery("count_events", time.Since(start), err)
	respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to count events", err)
}

// AcknowledgeEvent handles POST /api/v1/events/{id}/ack. The event is marked
// acknowledged and the total count is rebroadcast on the global feed.
func (h *Handler) AcknowledgeEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "id must be a positive integer", nil)
		return
	}

	start := time.Now()
	err := h.store.AcknowledgeEvent(r.Context(), id)
	metrics.RecordDBQuery("acknowledge_event", time.Since(start), err)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("event %d not found", id), nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to acknowledge event", err)
		return
	}

	h.cache.Delete(eventCacheKey(id))
	logging.Ctx(r.Context()).Info().Int64("event_id", id).Msg("Event acknowledged")
	h.counts.BroadcastCount(r.Context())

	respondSuccess(w, map[string]interface{}{
		"id":     id,
		"status": models.StatusAcknowledged,
	}, start)
}

// ListLocations handles GET /api/v1/locations.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if cached, ok := h.cache.Get(locationsCacheKey); ok {
		respondSuccess(w, cached, start)
		return
	}

	locations, err := h.store.ListLocations(r.Context())
	metrics.RecordDBQuery("list_locations", time.Since(start), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list locations", err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	h.cache.Set(locationsCacheKey, locations)
	respondSuccess(w, locations, start)
}

const locationsCacheKey = "locations"

func eventCacheKey(id int64) string {
	return cache.GenerateKey("event", id)
}
