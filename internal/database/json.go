// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package database

import (
	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/logging"
)

// marshalMeta serializes a metadata map for storage. An empty or
// unserializable map stores as "{}".
func marshalMeta(meta map[string]interface{}) string {
	if len(meta) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to marshal metadata, storing empty object")
		return "{}"
	}
	return string(raw)
}

// unmarshalMeta deserializes stored metadata, tolerating corrupt rows.
func unmarshalMeta(raw string) map[string]interface{} {
	if raw == "" || raw == "{}" {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		logging.Warn().Err(err).Msg("Failed to unmarshal stored metadata")
		return nil
	}
	return meta
}
