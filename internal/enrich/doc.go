// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package enrich attaches external catalog references to collection items
by searching the provider registry for each item's title.

Fallback catalog entries are never attached; an item either gets a real
provider reference or stays untouched until the next pass. References
within the freshness window are skipped unless the caller forces a
refresh, and a reference already claimed by another item is absorbed
quietly rather than surfaced as an enrichment failure.
*/
package enrich
