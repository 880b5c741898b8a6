// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package provider integrates external content catalogs behind a common
Adapter interface.

# Adapters

  - TMDB (movies and series, separate adapters over one client)
  - Deezer (music, no API key required)
  - Google Books and Open Library (books, aggregated with deduplication)

Adapters normalize provider payloads into models.ContentRecord and
degrade to the built-in fallback catalog when a provider is disabled or
unreachable, so search and trending endpoints always return content.

# Fetcher

All upstream traffic goes through Fetcher, which caches responses by
request fingerprint, counts hits and misses, and wraps each service in
a circuit breaker. Fingerprints hash the service name, URL, sorted
query parameters, and sorted non-sensitive headers; authorization,
api-key, and cookie headers are excluded, so rotating a credential
never fragments the cache.
*/
package provider
