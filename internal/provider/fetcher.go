// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/tastevin-app/tastevin/internal/cache"
	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/metrics"
)

// Request describes one outbound provider call. Headers carrying
// credentials are sent upstream but excluded from the cache key.
type Request struct {
	Service string
	URL     string
	Params  url.Values
	Headers map[string]string

	// TTLOverride, when positive, replaces the per-service TTL for
	// this response only.
	TTLOverride time.Duration
}

// Fetcher fronts every outbound provider HTTP call with the response
// cache, the shared Collector, and a per-service circuit breaker.
// Provider failures are absorbed: Fetch reports ok=false and callers
// fall back, the process never caches or propagates an upstream error.
type Fetcher struct {
	store     *cache.Store
	collector *Collector
	client    *http.Client
	cacheCfg  config.CacheConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// NewFetcher wires a fetcher over the given cache store and collector.
// The same collector is shared by every fetcher the server constructs.
func NewFetcher(store *cache.Store, collector *Collector, cacheCfg config.CacheConfig, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		store:     store,
		collector: collector,
		client:    &http.Client{Timeout: timeout},
		cacheCfg:  cacheCfg,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[[]byte]),
	}
}

// Collector exposes the fetcher's shared collector, used by the admin
// metrics endpoints.
func (f *Fetcher) Collector() *Collector {
	return f.collector
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

func (f *Fetcher) breaker(service string) *gobreaker.CircuitBreaker[[]byte] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := f.breakers[service]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        service,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("service", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Provider circuit breaker state change")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), breakerStateValue(to))
		},
	})
	f.breakers[service] = cb
	return cb
}

// Fetch resolves a provider request through the cache. On a hit the
// cached body is returned without touching the network. On a miss the
// request goes upstream; a 2xx body is cached under the per-service TTL
// (or req.TTLOverride) and returned. Exactly one hit or miss is
// recorded per call, before the upstream outcome is known.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (json.RawMessage, bool) {
	key := Fingerprint(req.Service, req.URL, req.Params, req.Headers)

	if cached, ok := f.store.Get(key); ok {
		f.collector.RecordHit()
		metrics.RecordCacheHit(req.Service)
		return cached, true
	}
	f.collector.RecordMiss()
	metrics.RecordCacheMiss(req.Service)

	body, err := f.breaker(req.Service).Execute(func() ([]byte, error) {
		return f.doRequest(ctx, req)
	})
	if err != nil {
		logging.Warn().
			Err(err).
			Str("service", req.Service).
			Str("url", req.URL).
			Msg("Provider request failed")
		return nil, false
	}

	ttl := req.TTLOverride
	if ttl <= 0 {
		ttl = f.cacheCfg.TTLFor(req.Service)
	}
	if err := f.store.Set(key, body, ttl); err != nil {
		// A failed write only costs a future hit.
		logging.Warn().Err(err).Str("service", req.Service).Msg("Failed to cache provider response")
	}
	return body, true
}

func (f *Fetcher) doRequest(ctx context.Context, req Request) ([]byte, error) {
	start := time.Now()

	u := req.URL
	if len(req.Params) > 0 {
		u = req.URL + "?" + req.Params.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		metrics.RecordProviderCall(req.Service, time.Since(start), "build_request")
		return nil, fmt.Errorf("building request for %s: %w", req.Service, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		metrics.RecordProviderCall(req.Service, time.Since(start), "network")
		return nil, fmt.Errorf("calling %s: %w", req.Service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordProviderCall(req.Service, time.Since(start), fmt.Sprintf("http_%d", resp.StatusCode))
		return nil, fmt.Errorf("%s returned status %d", req.Service, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		metrics.RecordProviderCall(req.Service, time.Since(start), "read_body")
		return nil, fmt.Errorf("reading %s response: %w", req.Service, err)
	}

	metrics.RecordProviderCall(req.Service, time.Since(start), "")
	return body, nil
}
