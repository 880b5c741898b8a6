// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package supervisor

import (
	"context"
	"time"

	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/models"
)

// StaleItemStore lists items whose reference is missing or older than
// the cutoff.
type StaleItemStore interface {
	ListStaleItems(ctx context.Context, cutoff time.Time, limit int) ([]models.Item, error)
}

// ItemEnricher runs the enrichment pass over a batch of items.
type ItemEnricher interface {
	EnrichAll(ctx context.Context, items []models.Item, force bool) int
}

// EnricherService periodically re-enriches items whose reference is
// missing or stale. Inline enrichment on item creation is best-effort;
// this pass picks up whatever it left behind.
type EnricherService struct {
	db        StaleItemStore
	enricher  ItemEnricher
	interval  time.Duration
	freshness time.Duration
	batchSize int
}

// NewEnricherService wraps the background enrichment pass as a
// supervised service.
func NewEnricherService(db StaleItemStore, enricher ItemEnricher, interval, freshness time.Duration) *EnricherService {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &EnricherService{
		db:        db,
		enricher:  enricher,
		interval:  interval,
		freshness: freshness,
		batchSize: 200,
	}
}

// Serve implements suture.Service.
func (s *EnricherService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-s.freshness)
			items, err := s.db.ListStaleItems(ctx, cutoff, s.batchSize)
			if err != nil {
				logging.Warn().Err(err).Msg("Failed to list stale items")
				continue
			}
			if len(items) == 0 {
				continue
			}
			changed := s.enricher.EnrichAll(ctx, items, false)
			logging.Info().
				Int("stale", len(items)).
				Int("changed", changed).
				Msg("Background enrichment pass")
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *EnricherService) String() string {
	return "item-enricher"
}
