// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package models

import "time"

// Item is an entry on a user's personal list: a title the user wants
// tracked, optionally enriched with provider metadata via an ExternalRef.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Category  Category  `json:"content_type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	// Ref is nil until enrichment has attached provider metadata.
	Ref *ExternalRef `json:"ref,omitempty"`
}

// ExternalRef binds a list item to provider content. The
// (ExternalID, Source) pair is globally unique: two items never share a
// ref, and re-enrichment updates the existing row rather than inserting.
type ExternalRef struct {
	ItemID      string                 `json:"item_id"`
	ExternalID  string                 `json:"external_id"`
	Source      Source                 `json:"source"`
	Title       string                 `json:"title"`
	PosterURL   string                 `json:"poster_url"`
	ReleaseYear int                    `json:"release_year"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	AttachedAt  time.Time              `json:"attached_at"`
}

// Enriched reports whether the item already carries provider metadata.
func (i Item) Enriched() bool {
	return i.Ref != nil
}
