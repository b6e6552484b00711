// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/metrics"
	"github.com/tomtom215/insight/internal/models"
)

const (
	handlerName = "event-processor"

	// CorrelationIDMetadataKey carries the HTTP correlation id across the topic.
	CorrelationIDMetadataKey = "correlation_id"
)

// Pipeline hands accepted requests from the HTTP edge to the Processor
// through an in-process watermill topic. The HTTP caller is answered as soon
// as Submit returns; processing happens on the router's consumer.
//
// Router middleware, outermost first:
//  1. drop-after-log: a message that still fails is logged, counted and acked
//  2. Recoverer: panics become errors
//  3. Retry: persistence failures are retried with exponential backoff
type Pipeline struct {
	cfg       config.IngestConfig
	pubsub    *gochannel.GoChannel
	processor *Processor
	logger    watermill.LoggerAdapter
	now       func() time.Time

	// router is the currently running router, nil between runs.
	router atomic.Pointer[message.Router]

	// inFlight counts messages published but not yet finished by the
	// router. gochannel.Publish never blocks, so this is the only bound.
	inFlight atomic.Int64
}

// NewPipeline creates the topic and pipeline. Serve must be running for
// Submit to accept messages.
func NewPipeline(cfg config.IngestConfig, processor *Processor) *Pipeline {
	logger := logging.NewWatermillAdapter("ingest")
	return &Pipeline{
		cfg: cfg,
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the clock used to stamp accepted requests.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Submit stamps req with the current time and publishes it for processing.
// It does not wait for processing. Once ingest.buffer_size messages are in
// flight it returns ErrQueueFull without publishing.
func (p *Pipeline) Submit(ctx context.Context, req *models.IngestRequest) error {
	if !p.IsRunning() {
		return ErrNotRunning
	}
	if !p.reserve() {
		return ErrQueueFull
	}

	payload, err := json.Marshal(Envelope{Request: req, ReceivedAt: p.now()})
	if err != nil {
		p.release()
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}
	msg.Metadata.Set(CorrelationIDMetadataKey, correlationID)

	if err := p.pubsub.Publish(p.cfg.Topic, msg); err != nil {
		p.release()
		return fmt.Errorf("publish to %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// InFlight returns the number of accepted messages not yet processed.
func (p *Pipeline) InFlight() int64 {
	return p.inFlight.Load()
}

func (p *Pipeline) reserve() bool {
	limit := p.cfg.BufferSize
	if limit <= 0 {
		limit = 1
	}
	if p.inFlight.Add(1) > limit {
		p.inFlight.Add(-1)
		return false
	}
	return true
}

func (p *Pipeline) release() {
	p.inFlight.Add(-1)
}

// Serve runs a router consuming the ingest topic until ctx is canceled.
// Each call builds a fresh router so a supervisor can restart it.
func (p *Pipeline) Serve(ctx context.Context) error {
	router, err := p.newRouter()
	if err != nil {
		return err
	}
	// Messages published to a previous router died with its subscription.
	p.inFlight.Store(0)
	p.router.Store(router)
	defer p.router.CompareAndSwap(router, nil)

	logging.Info().Str("topic", p.cfg.Topic).Msg("Ingest pipeline starting")
	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = fmt.Errorf("ingest router stopped unexpectedly")
	}
	return err
}

// Running returns a channel closed once the current router is consuming.
// It returns nil when no router has been started.
func (p *Pipeline) Running() <-chan struct{} {
	r := p.router.Load()
	if r == nil {
		return nil
	}
	return r.Running()
}

// IsRunning reports whether a router is currently consuming the topic.
func (p *Pipeline) IsRunning() bool {
	running := p.Running()
	if running == nil {
		return false
	}
	select {
	case <-running:
		return true
	default:
		return false
	}
}

// Close releases the topic. Call after Serve has returned.
func (p *Pipeline) Close() error {
	return p.pubsub.Close()
}

func (p *Pipeline) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: p.cfg.CloseTimeout,
	}, p.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(
		p.dropAfterLog,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      p.cfg.RetryCount,
			InitialInterval: p.cfg.RetryInterval,
			MaxInterval:     p.cfg.RetryMaxBackoff,
			Multiplier:      2.0,
			Logger:          p.logger,
		}.Middleware,
	)

	router.AddConsumerHandler(handlerName, p.cfg.Topic, p.pubsub, p.handle)
	return router, nil
}

// handle decodes and processes one message. Undecodable or incomplete
// messages are logged and acked since retrying cannot fix them.
func (p *Pipeline) handle(msg *message.Message) error {
	ctx := logging.ContextWithCorrelationID(msg.Context(), msg.Metadata.Get(CorrelationIDMetadataKey))

	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable ingest message")
		return nil
	}

	err := p.processor.Process(ctx, &env)
	if errors.Is(err, ErrMalformedPayload) {
		logging.Ctx(ctx).Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping incomplete ingest message")
		return nil
	}
	return err
}

// dropAfterLog acks messages that still fail after retries so the topic is
// not redelivering them forever.
func (p *Pipeline) dropAfterLog(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		defer p.release()
		start := time.Now()
		out, err := h(msg)
		metrics.RecordEventProcessed(time.Since(start), err)
		if err != nil {
			logging.Error().
				Err(err).
				Str("correlation_id", msg.Metadata.Get(CorrelationIDMetadataKey)).
				Str("message_uuid", msg.UUID).
				Msg("Event dropped after retries")
			return nil, nil
		}
		return out, nil
	}
}
