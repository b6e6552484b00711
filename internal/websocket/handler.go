// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/logging"
)

const handshakeTimeout = 10 * time.Second

// newUpgrader accepts any origin: dashboards are served from other hosts and
// the feeds carry no credentials.
func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: handshakeTimeout,
		CheckOrigin:      func(*http.Request) bool { return true },
	}
}

// ServeWS returns a handler that upgrades the request and subscribes the
// connection to hub. A failed upgrade registers nothing.
func ServeWS(hub *Hub, cfg config.WebSocketConfig) http.HandlerFunc {
	upgrader := newUpgrader()
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an HTTP error response.
			logging.Ctx(r.Context()).Warn().Err(err).Str("feed", hub.Name()).Msg("WebSocket upgrade failed")
			return
		}

		client := NewClient(hub, conn, cfg)
		hub.Register(client)
		client.Start()
	}
}
