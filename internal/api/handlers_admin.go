// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package api

import (
	"net/http"

	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/metrics"
	"github.com/tastevin-app/tastevin/internal/models"
)

// CacheMetrics returns the provider cache effectiveness counters.
func (h *Handler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.collector.Snapshot())
}

// CacheMetricsReset zeroes the provider cache counters.
func (h *Handler) CacheMetricsReset(w http.ResponseWriter, r *http.Request) {
	h.collector.Reset()
	logging.Info().Msg("Provider cache metrics reset")
	respondData(w, http.StatusOK, h.collector.Snapshot())
}

// CacheSweep removes expired provider cache entries and reports the
// count.
func (h *Handler) CacheSweep(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.CleanExpired()
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Cache sweep failed", err)
		return
	}
	metrics.RecordCacheSweep(removed)
	logging.Info().Int("removed", removed).Msg("Provider cache sweep")
	respondData(w, http.StatusOK, map[string]interface{}{"removed": removed})
}
