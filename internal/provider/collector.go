// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"math"
	"sync"
)

// Collector tracks cache effectiveness for the fetchers it is injected
// into. All counters move under one mutex so a snapshot is always
// internally consistent: total_requests == hits + misses at every
// observable point.
//
// The server constructs a single Collector and shares it across every
// provider adapter; its numbers therefore describe the whole outbound
// provider surface, not one adapter.
type Collector struct {
	mu     sync.Mutex
	hits   int64
	misses int64
	total  int64
}

// NewCollector returns a zeroed Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordHit counts one request answered from cache.
func (c *Collector) RecordHit() {
	c.mu.Lock()
	c.hits++
	c.total++
	c.mu.Unlock()
}

// RecordMiss counts one request that had to go upstream.
func (c *Collector) RecordMiss() {
	c.mu.Lock()
	c.misses++
	c.total++
	c.mu.Unlock()
}

// Reset zeroes all counters atomically.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.hits = 0
	c.misses = 0
	c.total = 0
	c.mu.Unlock()
}

// Snapshot is a consistent point-in-time view of the collector.
type Snapshot struct {
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	TotalRequests int64   `json:"total_requests"`
	HitRate       float64 `json:"hit_rate"`
}

// Snapshot returns the current counters and the derived hit rate. The
// hit rate is a percentage rounded to 2 decimals; with no requests yet
// it is 0.0, never NaN.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{Hits: c.hits, Misses: c.misses, TotalRequests: c.total}
	if c.total > 0 {
		s.HitRate = math.Round(float64(c.hits)/float64(c.total)*10000) / 100
	}
	return s
}
