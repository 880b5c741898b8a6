// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/database"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/metrics"
	"github.com/tastevin-app/tastevin/internal/models"
	"github.com/tastevin-app/tastevin/internal/provider"
)

// RefStore persists item-to-provider bindings.
type RefStore interface {
	GetRef(ctx context.Context, itemID string) (*models.ExternalRef, error)
	UpsertRef(ctx context.Context, ref models.ExternalRef) error
}

// identityFields duplicate the reference's own identity columns and are
// stripped from stored metadata.
var identityFields = []string{"external_id", "source", "id"}

// Enricher attaches provider metadata to list items. It never fails a
// user-facing flow: every outcome, including provider outages and
// reference conflicts, reduces to a boolean "did anything change".
type Enricher struct {
	adapters provider.Registry
	refs     RefStore
	cfg      config.EnrichConfig
}

// New wires an enricher.
func New(adapters provider.Registry, refs RefStore, cfg config.EnrichConfig) *Enricher {
	return &Enricher{adapters: adapters, refs: refs, cfg: cfg}
}

// Enrich resolves an item's title against its category's catalog and
// attaches (or refreshes) the reference. An existing reference inside
// the freshness window is left alone unless force is set; that no-op
// still reports success. False means the item ended up without a usable
// reference: no adapter, no match, a conflict, or a storage error.
func (e *Enricher) Enrich(ctx context.Context, item models.Item, force bool) bool {
	start := time.Now()
	category := string(item.Category)

	existing, err := e.refs.GetRef(ctx, item.ID)
	if err != nil {
		logging.Warn().Err(err).Str("item_id", item.ID).Msg("Failed to load reference")
		metrics.RecordEnrichment(category, "error", time.Since(start))
		return false
	}
	if existing != nil && !force && time.Since(existing.AttachedAt) < e.cfg.FreshnessWindow {
		// A fresh reference is success: the item is already enriched.
		metrics.RecordEnrichment(category, "fresh", time.Since(start))
		return true
	}

	adapter, ok := e.adapters.ForCategory(item.Category)
	if !ok {
		metrics.RecordEnrichment(category, "no_adapter", time.Since(start))
		return false
	}

	rec, ok := e.bestMatch(ctx, adapter, item.Title)
	if !ok {
		metrics.RecordEnrichment(category, "no_match", time.Since(start))
		return false
	}

	ref := models.ExternalRef{
		ItemID:      item.ID,
		ExternalID:  rec.ExternalID,
		Source:      rec.Source,
		Title:       rec.Title,
		PosterURL:   rec.PosterURL,
		ReleaseYear: rec.Year,
		Metadata:    stripIdentity(rec.Metadata),
		AttachedAt:  time.Now().UTC(),
	}
	if err := e.refs.UpsertRef(ctx, ref); err != nil {
		if errors.Is(err, database.ErrRefConflict) {
			logging.Debug().
				Str("item_id", item.ID).
				Str("external_id", ref.ExternalID).
				Msg("Reference already attached elsewhere")
			metrics.RecordEnrichment(category, "conflict", time.Since(start))
			return false
		}
		logging.Warn().Err(err).Str("item_id", item.ID).Msg("Failed to store reference")
		metrics.RecordEnrichment(category, "error", time.Since(start))
		return false
	}

	metrics.RecordEnrichment(category, "attached", time.Since(start))
	return true
}

// EnrichAll enriches a batch sequentially and returns how many items
// ended up enriched. Provider-level caching makes repeat titles cheap.
func (e *Enricher) EnrichAll(ctx context.Context, items []models.Item, force bool) int {
	succeeded := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if e.Enrich(ctx, item, force) {
			succeeded++
		}
	}
	return succeeded
}

// bestMatch picks the first real catalog result for a title. Fallback
// records are never attached: a sample id stored today would collide
// with real catalog data tomorrow.
func (e *Enricher) bestMatch(ctx context.Context, adapter provider.Adapter, title string) (models.ContentRecord, bool) {
	results := adapter.Search(ctx, title, 5)
	for _, rec := range results {
		if rec.Source == models.SourceFallback {
			continue
		}
		if e.cfg.FetchDetails {
			if detailed, ok := adapter.Details(ctx, rec.ExternalID); ok {
				return detailed, true
			}
		}
		return rec, true
	}
	return models.ContentRecord{}, false
}

func stripIdentity(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	for _, field := range identityFields {
		delete(out, field)
	}
	return out
}
