// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package database provides the DuckDB-backed relational store for
preferences, profiles, friendships, collection items, external
references, and versus matches.

# Schema

Tables are created idempotently at startup. Notable constraints:

  - preferences: primary key (user_id, external_id, source)
  - friendships: primary key over the normalized (user_low, user_high)
    pair, with the requester recorded separately
  - external_refs: one reference per item, and (external_id, source)
    unique across all items
  - match_sessions: unique (match_id, round_number)

# Invariants

Profile counters are maintained inside the same transaction as the
preference write, so totals never drift from the rows they count.
Friendship pairs are stored normalized (lexicographically ordered user
columns), which makes the pair unique regardless of who asked.
*/
package database
