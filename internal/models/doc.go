// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package models defines the data structures shared across Tastevin.

Key Components:

  - ContentRecord: normalized content from any provider, keyed by
    (external_id, source)
  - Preference, Profile: a user's verdict on content and the derived
    counters
  - Friendship: a normalized user pair with request state
  - Match, MatchSession: versus match state and per-round choices
  - CompatibilityResult: pairwise score with its breakdown
  - APIResponse, APIError: the standard HTTP envelope and error codes

It serves as the single source of truth for category and source enums
and carries no behavior beyond validation helpers and derived fields.
*/
package models
