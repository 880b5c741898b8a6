// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package metrics provides Prometheus metrics collection and export.

The package instruments:
  - HTTP request latency and throughput per route
  - Provider call outcomes and fallback usage
  - Cache hit/miss rates and sweep results
  - Circuit breaker state transitions
  - Versus match lifecycle (created, rounds matched, completed)
  - Enrichment outcomes

All collectors are registered with promauto against the default
registry and exposed at /metrics via promhttp.
*/
package metrics
