// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"context"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/models"
)

// Adapter is the common surface of every catalog integration. Adapters
// never return errors for upstream failures: Search and Trending fall
// back to deterministic sample content and Details reports found=false,
// keeping every user-facing flow functional while a provider is down.
type Adapter interface {
	// Service is the adapter's cache/metrics identity ("tmdb", "deezer", ...).
	Service() string

	// Category is the content category this adapter serves.
	Category() models.Category

	// Search returns up to limit records matching the query.
	Search(ctx context.Context, query string, limit int) []models.ContentRecord

	// Details returns the full record for one external id, or found=false.
	Details(ctx context.Context, externalID string) (models.ContentRecord, bool)

	// Trending returns up to limit popular records, used for versus pools.
	Trending(ctx context.Context, limit int) []models.ContentRecord
}

// Registry maps each content category to its adapter.
type Registry map[models.Category]Adapter

// ForCategory returns the adapter serving a category.
func (r Registry) ForCategory(c models.Category) (Adapter, bool) {
	a, ok := r[c]
	return a, ok
}

// NewRegistry wires the full adapter set over one shared fetcher: TMDB
// for films and series, Deezer for music, and the Google Books / Open
// Library aggregate for books.
func NewRegistry(f *Fetcher, cfg config.ProvidersConfig) Registry {
	return Registry{
		models.CategoryFilms:   NewTMDBMovies(f, cfg.TMDB),
		models.CategorySeries:  NewTMDBSeries(f, cfg.TMDB),
		models.CategoryMusique: NewDeezer(f, cfg.Deezer),
		models.CategoryLivres:  NewBookAggregate(NewGoogleBooks(f, cfg.GoogleBooks), NewOpenLibrary(f, cfg.OpenLibrary)),
	}
}

func capLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 50 {
		return 50
	}
	return limit
}
