// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package models

import (
	"regexp"
	"strconv"
)

// Category identifies one of the four fixed content categories users
// curate. The values are wire-stable and appear in API payloads and the
// database.
type Category string

const (
	CategoryFilms   Category = "FILMS"
	CategorySeries  Category = "SERIES"
	CategoryMusique Category = "MUSIQUE"
	CategoryLivres  Category = "LIVRES"
)

// Categories lists the four fixed categories in canonical order.
var Categories = []Category{CategoryFilms, CategorySeries, CategoryMusique, CategoryLivres}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFilms, CategorySeries, CategoryMusique, CategoryLivres:
		return true
	}
	return false
}

// Source identifies the third-party catalog a content record came from.
type Source string

const (
	SourceTMDB        Source = "tmdb"
	SourceDeezer      Source = "deezer"
	SourceGoogleBooks Source = "googlebooks"
	SourceOpenLibrary Source = "openlibrary"
	// SourceFallback marks deterministic sample content served when a
	// provider is unreachable or un-configured.
	SourceFallback Source = "fallback"
)

// ContentRecord is the normalized cross-provider content shape. Adapters
// map provider-specific JSON into this single tagged type; provider
// extras that have no normalized field live in Metadata.
//
// Mapping is total: absent optional fields are empty strings / zero
// values, never omitted keys, so downstream code treats the shape
// uniformly.
type ContentRecord struct {
	// ExternalID is unique within its Source.
	ExternalID string `json:"external_id"`
	Source     Source `json:"source"`
	Category   Category `json:"content_type"`

	Title       string `json:"title"`
	Description string `json:"description"`
	PosterURL   string `json:"poster_url"`

	// Normalized convenience fields derived once via a fixed fallback
	// chain (see ReleaseYear).
	Thumbnail string `json:"thumbnail"`
	Year      int    `json:"year"`

	// Metadata carries provider-specific fields: release dates,
	// popularity, genre ids, authors, and so on.
	Metadata map[string]interface{} `json:"metadata"`
}

// Key returns the (external_id, source) identity of the record.
func (r ContentRecord) Key() ExternalKey {
	return ExternalKey{ExternalID: r.ExternalID, Source: r.Source}
}

// ExternalKey is the global identity of provider content: external_id is
// only unique within a source, so both parts are needed.
type ExternalKey struct {
	ExternalID string `json:"external_id"`
	Source     Source `json:"source"`
}

// releaseDateFields is the fixed, ordered list of metadata fields
// consulted when deriving a release year. First match wins.
var releaseDateFields = []string{
	"release_date",
	"first_air_date",
	"published_date",
	"publish_year",
	"year",
}

var yearPattern = regexp.MustCompile(`^(\d{4})`)

// ReleaseYear extracts a best-effort release year from the record's
// metadata. It accepts a bare 4-digit year, a full ISO date
// ("2006-05-12"), or a numeric value, walking releaseDateFields in order.
// Returns 0 when nothing parseable is present.
func (r ContentRecord) ReleaseYear() int {
	for _, field := range releaseDateFields {
		raw, ok := r.Metadata[field]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			if m := yearPattern.FindStringSubmatch(v); m != nil {
				if year, err := strconv.Atoi(m[1]); err == nil {
					return year
				}
			}
		case float64:
			if v >= 1000 && v <= 9999 {
				return int(v)
			}
		case int:
			if v >= 1000 && v <= 9999 {
				return v
			}
		}
	}
	return 0
}
