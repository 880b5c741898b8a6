// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package config

import "time"

// Config is the root configuration for the Tastevin backend.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Providers ProvidersConfig `koanf:"providers"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Versus    VersusConfig    `koanf:"versus"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings for the relational store
// (preferences, profiles, friendships, matches, items, references).
type DatabaseConfig struct {
	Path    string `koanf:"path" validate:"required"`
	Threads int    `koanf:"threads"`
}

// CacheConfig holds the provider-cache settings: the BadgerDB store path
// and the per-service TTL table consulted when caching a fresh response.
type CacheConfig struct {
	// Path is the BadgerDB directory. Empty means in-memory (tests, dev).
	Path string `koanf:"path"`

	// DefaultTTL applies to services absent from ServiceTTLs.
	DefaultTTL time.Duration `koanf:"default_ttl"`

	// ServiceTTLs maps a service name (e.g. "tmdb") to its cache TTL.
	ServiceTTLs map[string]time.Duration `koanf:"service_ttls"`
}

// TTLFor returns the configured TTL for a service, falling back to the
// default when the service has no dedicated entry.
func (c CacheConfig) TTLFor(service string) time.Duration {
	if ttl, ok := c.ServiceTTLs[service]; ok {
		return ttl
	}
	return c.DefaultTTL
}

// ProvidersConfig holds third-party catalog credentials and endpoints.
// A provider with no credentials runs in degraded mode: its adapter serves
// deterministic fallback content instead of calling out.
type ProvidersConfig struct {
	Timeout time.Duration `koanf:"timeout"`

	TMDB        TMDBConfig        `koanf:"tmdb"`
	Deezer      DeezerConfig      `koanf:"deezer"`
	GoogleBooks GoogleBooksConfig `koanf:"google_books"`
	OpenLibrary OpenLibraryConfig `koanf:"open_library"`
}

// TMDBConfig configures the movie/TV catalog. The access token is sent as
// a bearer header so it never participates in cache fingerprints.
type TMDBConfig struct {
	BaseURL     string `koanf:"base_url"`
	AccessToken string `koanf:"access_token"`
}

// Enabled reports whether the TMDB adapter may call out.
func (c TMDBConfig) Enabled() bool { return c.AccessToken != "" }

// DeezerConfig configures the music catalog. Deezer's public search and
// chart endpoints are unauthenticated.
type DeezerConfig struct {
	BaseURL string `koanf:"base_url"`
}

// GoogleBooksConfig configures the primary book catalog. The API key is
// optional; anonymous requests are rate-limited but functional.
type GoogleBooksConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// OpenLibraryConfig configures the secondary book catalog.
type OpenLibraryConfig struct {
	BaseURL string `koanf:"base_url"`
}

// EnrichConfig holds enrichment orchestrator settings.
type EnrichConfig struct {
	// FreshnessWindow is how long an attached reference stays fresh before
	// re-enrichment is attempted.
	FreshnessWindow time.Duration `koanf:"freshness_window"`

	// FetchDetails controls whether a second, richer details call is made
	// after the initial search match.
	FetchDetails bool `koanf:"fetch_details"`
}

// VersusConfig holds versus-match settings.
type VersusConfig struct {
	// DefaultRounds is the round count when match creation omits one.
	DefaultRounds int `koanf:"default_rounds" validate:"min=1"`

	// PoolSize is the total candidate pool size generated at match
	// creation, spread across the four categories.
	PoolSize int `koanf:"pool_size" validate:"min=4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// These defaults are applied first, then overridden by config file and
// environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Path:    "/data/tastevin.duckdb",
			Threads: 0, // 0 = use runtime.NumCPU()
		},
		Cache: CacheConfig{
			Path:       "/data/provider-cache",
			DefaultTTL: 4 * time.Hour,
			ServiceTTLs: map[string]time.Duration{
				"tmdb":        6 * time.Hour,
				"deezer":      2 * time.Hour,
				"googlebooks": 12 * time.Hour,
				"openlibrary": 12 * time.Hour,
			},
		},
		Providers: ProvidersConfig{
			Timeout: 10 * time.Second,
			TMDB: TMDBConfig{
				BaseURL: "https://api.themoviedb.org/3",
			},
			Deezer: DeezerConfig{
				BaseURL: "https://api.deezer.com",
			},
			GoogleBooks: GoogleBooksConfig{
				BaseURL: "https://www.googleapis.com/books/v1",
			},
			OpenLibrary: OpenLibraryConfig{
				BaseURL: "https://openlibrary.org",
			},
		},
		Enrich: EnrichConfig{
			FreshnessWindow: 7 * 24 * time.Hour,
			FetchDetails:    true,
		},
		Versus: VersusConfig{
			DefaultRounds: 10,
			PoolSize:      20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
