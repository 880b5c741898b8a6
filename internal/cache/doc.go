// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package cache implements the keyed TTL store backing the provider
response cache, persisted in BadgerDB.

# Overview

The store provides:
  - JSON values with an absolute per-entry expiry
  - Eager purge of expired entries on read
  - A periodic sweep (CleanExpired) for entries no read ever touches
  - In-memory operation when opened with an empty path (tests, local dev)

# Failure Mode

Reads fail open: any storage fault reads as a miss so the caller falls
through to the upstream provider. Write failures are returned to the
caller but never poison previously cached entries.
*/
package cache
