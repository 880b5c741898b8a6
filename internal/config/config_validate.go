// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for programmer/operator errors.
// Validation failures are startup failures: they propagate loudly rather
// than being masked by runtime fallbacks.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// TTL table: a zero or negative TTL would make every cache entry
	// born expired, which is always a configuration mistake.
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl must be positive, got %s", c.Cache.DefaultTTL)
	}
	for service, ttl := range c.Cache.ServiceTTLs {
		if ttl <= 0 {
			return fmt.Errorf("cache.service_ttls[%s] must be positive, got %s", service, ttl)
		}
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive, got %s", c.Providers.Timeout)
	}

	if c.Enrich.FreshnessWindow <= 0 {
		return fmt.Errorf("enrich.freshness_window must be positive, got %s", c.Enrich.FreshnessWindow)
	}

	if c.Versus.PoolSize < c.Versus.DefaultRounds {
		return fmt.Errorf("versus.pool_size (%d) must be >= versus.default_rounds (%d)",
			c.Versus.PoolSize, c.Versus.DefaultRounds)
	}

	return nil
}
