// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// sensitiveHeaders are never folded into a request fingerprint, so
// credential rotation does not invalidate cached responses and secrets
// never influence cache keys.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"x-api-key":     {},
	"api-key":       {},
	"cookie":        {},
}

// Fingerprint derives the deterministic cache key for an outbound
// provider request. Two requests that differ only in parameter or
// header order, or only in sensitive headers, produce the same key.
func Fingerprint(service, rawURL string, params url.Values, headers map[string]string) string {
	var b strings.Builder
	b.WriteString(service)
	b.WriteByte('|')
	b.WriteString(rawURL)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			b.WriteByte('|')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}

	hkeys := make([]string, 0, len(headers))
	for k := range headers {
		lk := strings.ToLower(k)
		if _, skip := sensitiveHeaders[lk]; skip {
			continue
		}
		hkeys = append(hkeys, lk)
	}
	sort.Strings(hkeys)
	for _, lk := range hkeys {
		b.WriteByte('|')
		b.WriteString(lk)
		b.WriteByte(':')
		for k, v := range headers {
			if strings.ToLower(k) == lk {
				b.WriteString(v)
				break
			}
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
