// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package middleware provides HTTP middleware shared by every route.

  - RequestID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation ids
  - RequestLogger: debug-level access log through zerolog
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern

All three are http.HandlerFunc decorators; the api package adapts them to
chi's func(http.Handler) http.Handler form. The response wrapper supports
Hijack so live feed upgrades work behind it.
*/
package middleware
