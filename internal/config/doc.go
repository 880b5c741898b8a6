// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package config provides centralized configuration management.

Configuration is loaded with koanf from three layered sources, later
sources overriding earlier ones:

  - Built-in defaults
  - An optional YAML file (CONFIG_PATH, then ./config.yaml and the
    other DefaultConfigPaths)
  - Environment variables prefixed TASTEVIN_, e.g.
    TASTEVIN_SERVER_PORT or TASTEVIN_PROVIDERS_TMDB_ACCESS_TOKEN

Load validates the assembled Config before returning it, so a
misconfigured deployment fails at startup rather than at first use.
*/
package config
