// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package websocket implements the two live feeds pushed to browser clients.

Each feed is a Hub holding the set of connected subscribers. The raw feed
("raw", served at /ws) receives every accepted notification verbatim. The
global feed ("global", served at /ws_global) receives {"num_event":N} after
every stored event and after every acknowledgement.

	┌──────────────┐   Broadcast(msg)   ┌──────────┐
	│ ingest/api   │ ─────────────────> │   Hub    │
	└──────────────┘                    └────┬─────┘
	                             Send (non-blocking, id order)
	                        ┌────────────┬───┴────────┐
	                      Client 1    Client 2     Client 3
	                        │            │            │
	                    writePump    writePump    writePump

Broadcast is synchronous and never blocks on a slow peer: each Client owns a
buffered queue drained by its write pump. A client whose queue is full, or
that has already closed, is unregistered and closed while the rest of the
feed still receives the message.

Clients never send meaningful data; the read pump only exists to service
pongs and detect disconnects, after which the client unregisters itself.

The hub runs under the supervisor tree through RunWithContext, which closes
all subscribers on shutdown.
*/
package websocket
