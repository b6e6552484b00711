// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/metrics"
)

// Feed names. They double as the "feed" metrics label.
const (
	FeedRaw    = "raw"
	FeedGlobal = "global"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Subscriber is one registered feed connection.
//
// Send must not block: it either queues msg for delivery or returns an error.
// Close must be safe to call more than once.
type Subscriber interface {
	ID() uint64
	Send(msg []byte) error
	Close()
}

// Hub is the subscriber set for one live feed.
//
// Register and Unregister are idempotent. Broadcast delivers to every
// subscriber registered when it starts, in ascending id order; a subscriber
// whose Send fails is unregistered and closed without affecting the others.
type Hub struct {
	name    string
	clients map[uint64]Subscriber
	mu      sync.RWMutex

	// broadcastMu serializes broadcasts so every subscriber observes the
	// same message order.
	broadcastMu sync.Mutex

	logger zerolog.Logger
}

// NewHub creates an empty hub for the named feed.
func NewHub(name string) *Hub {
	metrics.SetSubscribers(name, 0)
	return &Hub{
		name:    name,
		clients: make(map[uint64]Subscriber),
		logger:  logging.With().Str("component", "websocket-hub").Str("feed", name).Logger(),
	}
}

// Name returns the feed name.
func (h *Hub) Name() string {
	return h.name
}

// Register adds s to the hub. It reports false if s was already registered.
func (h *Hub) Register(s Subscriber) bool {
	h.mu.Lock()
	if _, ok := h.clients[s.ID()]; ok {
		h.mu.Unlock()
		return false
	}
	h.clients[s.ID()] = s
	total := len(h.clients)
	h.mu.Unlock()

	metrics.SetSubscribers(h.name, total)
	h.logger.Info().Uint64("client_id", s.ID()).Int("total_clients", total).Msg("websocket client connected")
	return true
}

// Unregister removes s from the hub. It reports false if s was not registered.
// Unregister does not close s.
func (h *Hub) Unregister(s Subscriber) bool {
	h.mu.Lock()
	cur, ok := h.clients[s.ID()]
	if !ok || cur != s {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, s.ID())
	total := len(h.clients)
	h.mu.Unlock()

	metrics.SetSubscribers(h.name, total)
	h.logger.Info().Uint64("client_id", s.ID()).Int("total_clients", total).Msg("websocket client disconnected")
	return true
}

// GetClientCount returns the number of registered subscribers.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg on every registered subscriber and returns how many
// accepted it. Subscribers that fail are dropped and closed. Broadcast never
// fails as a whole; an empty hub is a no-op returning 0.
func (h *Hub) Broadcast(msg []byte) int {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()

	clients := h.snapshot()

	var failed []Subscriber
	for _, c := range clients {
		if err := c.Send(msg); err != nil {
			h.logger.Debug().Err(err).Uint64("client_id", c.ID()).Msg("dropping websocket client")
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		h.Unregister(c)
		c.Close()
	}

	delivered := len(clients) - len(failed)
	metrics.RecordBroadcast(h.name, delivered, len(failed))
	return delivered
}

// BroadcastJSON marshals v and broadcasts it. Only a marshal failure is
// returned as an error.
func (h *Hub) BroadcastJSON(v interface{}) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(data), nil
}

// RunWithContext blocks until ctx is done, then closes every registered
// subscriber. It lets the hub live under a suture supervisor so in-flight
// connections are torn down on shutdown.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	closed := h.closeAllClients()
	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// snapshot returns the registered subscribers sorted by id.
func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	clients := make([]Subscriber, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID() < clients[j].ID()
	})
	return clients
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	clients := make([]Subscriber, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID() < clients[j].ID()
	})
	for _, c := range clients {
		c.Close()
	}
	metrics.SetSubscribers(h.name, 0)
	return len(clients)
}
