// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package supervisor

import (
	"context"
	"time"

	"github.com/tastevin-app/tastevin/internal/cache"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/metrics"
)

// SweeperService periodically removes expired provider cache entries.
// Reads already purge lazily, the sweep reclaims space for entries
// nothing asks for anymore.
type SweeperService struct {
	store    *cache.Store
	interval time.Duration
}

// NewSweeperService wraps the cache sweep as a supervised service.
func NewSweeperService(store *cache.Store, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweeperService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.store.CleanExpired()
			if err != nil {
				logging.Warn().Err(err).Msg("Cache sweep failed")
				continue
			}
			metrics.RecordCacheSweep(removed)
			if removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Cache sweep")
			}
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *SweeperService) String() string {
	return "cache-sweeper"
}
