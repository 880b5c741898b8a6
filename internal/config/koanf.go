// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tastevin/config.yaml",
	"/etc/tastevin/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence: ENV > file > defaults. The merged configuration is validated
// before being returned; an invalid configuration (bad port, non-positive
// TTL, missing database path) is a startup failure, never masked.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// TASTEVIN_SERVER_PORT -> server.port
	// TASTEVIN_PROVIDERS_TMDB_ACCESS_TOKEN -> providers.tmdb.access_token
	envProvider := env.Provider("TASTEVIN_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - TASTEVIN_SERVER_PORT -> server.port
//   - TASTEVIN_DATABASE_PATH -> database.path
//   - TASTEVIN_CACHE_DEFAULT_TTL -> cache.default_ttl
//   - TASTEVIN_PROVIDERS_TMDB_ACCESS_TOKEN -> providers.tmdb.access_token
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "TASTEVIN_"))

	// Compound section names that must not be split on their inner
	// underscore when converting to a dotted path.
	mappings := map[string]string{
		"server_rate_limit_reqs":          "server.rate_limit_reqs",
		"server_rate_limit_window":        "server.rate_limit_window",
		"server_cors_origins":             "server.cors_origins",
		"cache_default_ttl":               "cache.default_ttl",
		"providers_tmdb_base_url":         "providers.tmdb.base_url",
		"providers_tmdb_access_token":     "providers.tmdb.access_token",
		"providers_deezer_base_url":       "providers.deezer.base_url",
		"providers_google_books_base_url": "providers.google_books.base_url",
		"providers_google_books_api_key":  "providers.google_books.api_key",
		"providers_open_library_base_url": "providers.open_library.base_url",
		"enrich_freshness_window":         "enrich.freshness_window",
		"enrich_fetch_details":            "enrich.fetch_details",
		"versus_default_rounds":           "versus.default_rounds",
		"versus_pool_size":                "versus.pool_size",
	}
	if mapped, ok := mappings[key]; ok {
		return mapped
	}

	// General rule: first underscore separates the section.
	return strings.Replace(key, "_", ".", 1)
}

// sliceConfigPaths defines which paths are parsed as comma-separated
// slices when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults).
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
