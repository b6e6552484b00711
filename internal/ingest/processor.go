// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/metrics"
	"github.com/tomtom215/insight/internal/models"
	"github.com/tomtom215/insight/internal/snapshot"
)

// EventStore is the part of the event store the processor writes to.
type EventStore interface {
	InsertEvent(ctx context.Context, ev *models.Event) error
	CountEvents(ctx context.Context) (int64, error)
}

// SnapshotSaver stores a base64 snapshot and returns its relative path.
type SnapshotSaver interface {
	Save(payload string, eventType models.EventType, at time.Time) (string, error)
}

// Broadcaster pushes a message to every subscriber of a live feed.
type Broadcaster interface {
	Broadcast(msg []byte) int
}

// Envelope is an accepted ingest request plus the time it was accepted.
// It is the payload carried on the ingest topic.
type Envelope struct {
	Request    *models.IngestRequest `json:"request"`
	ReceivedAt time.Time             `json:"received_at"`
}

// Processor runs the post-acknowledgement steps for one accepted event:
// build the notification, store the snapshot, persist the event, then
// broadcast on the raw feed and the new total on the global feed.
type Processor struct {
	store     EventStore
	snapshots SnapshotSaver
	raw       Broadcaster
	global    Broadcaster
	breaker   *gobreaker.CircuitBreaker[interface{}]
}

// NewProcessor wires a processor. cfg supplies the breaker settings.
func NewProcessor(cfg config.IngestConfig, store EventStore, snapshots SnapshotSaver, raw, global Broadcaster) *Processor {
	return &Processor{
		store:     store,
		snapshots: snapshots,
		raw:       raw,
		global:    global,
		breaker:   newCircuitBreaker(persistenceBreakerName, cfg.BreakerFailures, cfg.BreakerTimeout),
	}
}

// Process handles one envelope. It returns an ErrPersistence-wrapped error
// only when the event could not be stored; in that case nothing has been
// broadcast and the call may be retried. Snapshot writes are idempotent for
// a given envelope.
func (p *Processor) Process(ctx context.Context, env *Envelope) error {
	if env == nil || env.Request == nil {
		return fmt.Errorf("%w: empty envelope", ErrMalformedPayload)
	}
	req := env.Request
	if req.LocationID == nil || req.EventType == nil || req.EventFactor == nil {
		return fmt.Errorf("%w: missing required field", ErrMalformedPayload)
	}

	// The notification is built from the request as received, before
	// anything is written.
	note, err := json.Marshal(models.NewNotification(req, env.ReceivedAt))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	eventType := models.EventType(req.EventType.Int64())
	ev := &models.Event{
		LocationID: req.LocationID.Int64(),
		Type:       eventType,
		Factor:     req.EventFactor.String(),
		DT:         env.ReceivedAt.Truncate(time.Second),
		Snapshot:   p.saveSnapshot(ctx, req.SnapshotPayload(), eventType, env.ReceivedAt),
		Status:     models.StatusNew,
	}

	if err := p.persist(ctx, ev); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Int64("event_id", ev.ID).
		Int64("location_id", ev.LocationID).
		Int("type", int(ev.Type)).
		Bool("snapshot", ev.Snapshot != models.NoSnapshot).
		Msg("Event stored")

	p.raw.Broadcast(note)
	p.BroadcastCount(ctx)
	return nil
}

// BroadcastCount sends the current total event count to the global feed.
// A failed count is logged and skipped.
func (p *Processor) BroadcastCount(ctx context.Context) {
	start := time.Now()
	n, err := p.store.CountEvents(ctx)
	metrics.RecordDBQuery("count_events", time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to count events, skipping global broadcast")
		return
	}

	msg, err := json.Marshal(models.CountNotification{NumEvent: n})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to encode count notification")
		return
	}
	p.global.Broadcast(msg)
}

// saveSnapshot returns the stored path, or the sentinel when there is no
// snapshot or it could not be stored.
func (p *Processor) saveSnapshot(ctx context.Context, payload string, eventType models.EventType, at time.Time) string {
	path, err := p.snapshots.Save(payload, eventType, at)
	if err == nil {
		metrics.RecordSnapshot(true, "")
		return path
	}

	var decodeErr *snapshot.DecodeError
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
	case errors.As(err, &decodeErr):
		metrics.RecordSnapshot(false, "decode")
		logging.Ctx(ctx).Warn().Err(err).Msg("Discarding undecodable snapshot")
	default:
		metrics.RecordSnapshot(false, "write")
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to write snapshot")
	}
	return models.NoSnapshot
}

func (p *Processor) persist(ctx context.Context, ev *models.Event) error {
	start := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.store.InsertEvent(ctx, ev)
	})
	metrics.RecordDBQuery("insert_event", time.Since(start), err)

	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(persistenceBreakerName, metrics.ResultSuccess)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(persistenceBreakerName, metrics.ResultRejected)
	default:
		metrics.RecordCircuitBreakerRequest(persistenceBreakerName, metrics.ResultFailure)
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
