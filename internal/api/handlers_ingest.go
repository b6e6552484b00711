// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/insight/internal/ingest"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/metrics"
	"github.com/tomtom215/insight/internal/models"
)

// maxIngestBodyBytes bounds a single detector report, snapshot included.
const maxIngestBodyBytes = 16 << 20

// Ingest handles POST /api from detectors.
//
// A body that is not a JSON object with integer location_id and event_type
// and a string or numeric event_factor is rejected with 400 and nothing is
// stored. An accepted body is answered with an empty 200 right away; storage
// and broadcasting continue in the ingest pipeline.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIngestBodyBytes))
	if err != nil {
		h.rejectIngest(w, r, fmt.Errorf("%w: %v", ingest.ErrMalformedPayload, err), nil)
		return
	}

	var req models.IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.rejectIngest(w, r, fmt.Errorf("%w: %v", ingest.ErrMalformedPayload, err), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		h.rejectIngest(w, r, fmt.Errorf("%w: %s", ingest.ErrMalformedPayload, apiErr.Message), apiErr)
		return
	}

	if err := h.ingest.Submit(r.Context(), &req); err != nil {
		metrics.RecordIngest(metrics.ResultFailure)
		if errors.Is(err, ingest.ErrNotRunning) {
			respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Ingest pipeline is not running", err)
			return
		}
		if errors.Is(err, ingest.ErrQueueFull) {
			respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Ingest queue is full", err)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to queue event", err)
		return
	}

	metrics.RecordIngest(metrics.ResultSuccess)
	w.WriteHeader(http.StatusOK)
}

// rejectIngest answers 400. apiErr carries field details when validation
// failed; otherwise a generic body is built from err.
func (h *Handler) rejectIngest(w http.ResponseWriter, r *http.Request, err error, apiErr *models.APIError) {
	metrics.RecordIngest(metrics.ResultInvalid)
	logging.Ctx(r.Context()).Warn().
		Str("error", sanitizeLogValue(err.Error())).
		Str("remote_addr", r.RemoteAddr).
		Msg("Rejected ingest payload")

	if apiErr == nil {
		apiErr = &models.APIError{
			Code:    ErrCodeValidation,
			Message: "Request body must be a JSON object with location_id, event_type and event_factor",
		}
	}
	respondAPIError(w, http.StatusBadRequest, apiErr)
}
