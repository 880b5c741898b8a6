// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package api

import (
	"net/http"
	"time"

	"github.com/tastevin-app/tastevin/internal/models"
)

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady reports readiness: the database must answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Database not ready", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Health returns an overall health summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbHealthy := h.db.Ping(r.Context()) == nil

	status := "healthy"
	httpStatus := http.StatusOK
	if !dbHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respondData(w, httpStatus, map[string]interface{}{
		"status":         status,
		"database":       dbHealthy,
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"cache":          h.collector.Snapshot(),
	})
}
