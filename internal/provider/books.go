// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"context"
	"strings"

	"github.com/tastevin-app/tastevin/internal/models"
)

// BookAggregate merges the primary (Google Books) and secondary (Open
// Library) catalogs into the single LIVRES adapter the rest of the
// system sees. Results are deduplicated by normalized title with the
// primary catalog winning ties, so richer Google Books metadata is kept
// whenever both know the same work.
type BookAggregate struct {
	primary   *GoogleBooksAdapter
	secondary *OpenLibraryAdapter
}

// NewBookAggregate wires the LIVRES aggregate.
func NewBookAggregate(primary *GoogleBooksAdapter, secondary *OpenLibraryAdapter) *BookAggregate {
	return &BookAggregate{primary: primary, secondary: secondary}
}

// Service returns the primary catalog's identity; per-call cache and
// metrics accounting happens inside the underlying adapters.
func (a *BookAggregate) Service() string           { return a.primary.Service() }
func (a *BookAggregate) Category() models.Category { return models.CategoryLivres }

// normalizeTitle collapses case and surrounding/internal extra spaces so
// "The Hobbit" and "the  hobbit" dedupe together.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

func (a *BookAggregate) merge(primary, secondary []models.ContentRecord, limit int) []models.ContentRecord {
	seen := make(map[string]struct{}, len(primary))
	out := make([]models.ContentRecord, 0, limit)

	for _, rec := range primary {
		key := normalizeTitle(rec.Title)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
		if len(out) >= limit {
			return out
		}
	}
	for _, rec := range secondary {
		key := normalizeTitle(rec.Title)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Search queries both catalogs and merges.
func (a *BookAggregate) Search(ctx context.Context, query string, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)
	return a.merge(
		a.primary.Search(ctx, query, limit),
		a.secondary.Search(ctx, query, limit),
		limit,
	)
}

// Trending merges both catalogs' recency feeds.
func (a *BookAggregate) Trending(ctx context.Context, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)
	return a.merge(
		a.primary.Trending(ctx, limit),
		a.secondary.Trending(ctx, limit),
		limit,
	)
}

// Details tries the primary catalog first, then the secondary. The id
// namespaces differ, so at most one will recognize it.
func (a *BookAggregate) Details(ctx context.Context, externalID string) (models.ContentRecord, bool) {
	if rec, ok := a.primary.Details(ctx, externalID); ok {
		return rec, true
	}
	return a.secondary.Details(ctx, externalID)
}
