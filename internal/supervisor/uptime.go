// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package supervisor

import (
	"context"
	"time"

	"github.com/tastevin-app/tastevin/internal/metrics"
)

// UptimeService keeps the process uptime gauge current.
type UptimeService struct {
	start time.Time
}

// NewUptimeService wraps the uptime gauge as a supervised service.
func NewUptimeService(start time.Time) *UptimeService {
	return &UptimeService{start: start}
}

// Serve implements suture.Service.
func (s *UptimeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(s.start).Seconds())
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *UptimeService) String() string {
	return "uptime"
}
