// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/insight/internal/middleware"
	ws "github.com/tomtom215/insight/internal/websocket"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// NewRouter configures all HTTP routes.
//
//	POST /api                         detector ingest (open, not rate limited)
//	GET  /ws, /ws_global              live feeds
//	GET  /api/v1/...                  event queries, health (CORS, rate limited)
//	GET  /metrics                     Prometheus exposition
//	GET  /static/*                    stored snapshots
func NewRouter(h *Handler) http.Handler {
	cfg := h.config
	cm := NewChiMiddleware(ChiMiddlewareConfigFrom(cfg.Security))

	r := chi.NewRouter()

	// Global Middleware Stack
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chiMiddleware(middleware.RequestLogger))

	// Ingest and live feeds. Detectors and dashboards connect without
	// credentials or origin checks.
	r.With(chiMiddleware(middleware.PrometheusMetrics)).Post("/api", h.Ingest)
	r.Get("/ws", ws.ServeWS(h.rawHub, cfg.WebSocket))
	r.Get("/ws_global", ws.ServeWS(h.globalHub, cfg.WebSocket))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cm.CORS())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(cm.RateLimit("/api/v1"))
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/events", h.ListEvents)
			r.Get("/events/count", h.CountEvents)
			r.Get("/events/{id}", h.GetEvent)
			r.Post("/events/{id}/ack", h.AcknowledgeEvent)
			r.Get("/locations", h.ListLocations)
		})
	})

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Handle("/static/*", http.StripPrefix("/static/", staticFiles(cfg.Snapshot.StaticRoot)))

	return r
}

// staticFiles serves files under root without directory listings.
func staticFiles(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
