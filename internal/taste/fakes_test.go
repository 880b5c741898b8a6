// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/models"
	"github.com/tastevin-app/tastevin/internal/provider"
)

// memStore is an in-memory implementation of the engine's store
// interfaces, mirroring the database layer's transactional rules.
type memStore struct {
	mu       sync.Mutex
	prefs    map[string]map[models.ExternalKey]models.Preference
	profiles map[string]*models.Profile
	friends  map[[2]string]models.FriendshipStatus
	matches  map[string]models.Match
	sessions map[string][]models.MatchSession
	keys     map[string][]models.ExternalKey
}

func newMemStore() *memStore {
	return &memStore{
		prefs:    make(map[string]map[models.ExternalKey]models.Preference),
		profiles: make(map[string]*models.Profile),
		friends:  make(map[[2]string]models.FriendshipStatus),
		matches:  make(map[string]models.Match),
		sessions: make(map[string][]models.MatchSession),
		keys:     make(map[string][]models.ExternalKey),
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func (m *memStore) befriend(a, b string) {
	m.mu.Lock()
	m.friends[pairKey(a, b)] = models.FriendshipAccepted
	m.mu.Unlock()
}

func (m *memStore) UpsertPreference(_ context.Context, pref models.Preference) (models.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs[pref.UserID] == nil {
		m.prefs[pref.UserID] = make(map[models.ExternalKey]models.Preference)
	}
	if m.profiles[pref.UserID] == nil {
		m.profiles[pref.UserID] = &models.Profile{UserID: pref.UserID}
	}

	key := models.ExternalKey{ExternalID: pref.ExternalID, Source: pref.Source}
	profile := m.profiles[pref.UserID]
	now := time.Now().UTC()

	existing, seen := m.prefs[pref.UserID][key]
	switch {
	case !seen:
		profile.TotalMatches++
		if pref.Action == models.ActionAdded {
			profile.SuccessfulMatches++
		}
		pref.CreatedAt = now
	case existing.Action != pref.Action:
		if pref.Action == models.ActionAdded {
			profile.SuccessfulMatches++
		}
		pref.CreatedAt = existing.CreatedAt
	default:
		pref.CreatedAt = existing.CreatedAt
	}
	pref.UpdatedAt = now
	m.prefs[pref.UserID][key] = pref
	return pref, nil
}

func (m *memStore) ListPreferences(_ context.Context, userID string) ([]models.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Preference
	for _, p := range m.prefs[userID] {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetProfile(_ context.Context, userID string) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.profiles[userID]; p != nil {
		return *p, nil
	}
	return models.Profile{UserID: userID}, nil
}

func (m *memStore) AreFriends(_ context.Context, a, b string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.friends[pairKey(a, b)] == models.FriendshipAccepted, nil
}

func (m *memStore) CreateMatch(_ context.Context, match models.Match, sessions []models.MatchSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.ID] = match
	m.sessions[match.ID] = append([]models.MatchSession(nil), sessions...)
	return nil
}

func (m *memStore) GetMatch(_ context.Context, matchID string) (models.Match, []models.MatchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return models.Match{}, nil, fmt.Errorf("match %s not found", matchID)
	}
	return match, append([]models.MatchSession(nil), m.sessions[matchID]...), nil
}

func (m *memStore) UpdateSession(_ context.Context, s models.MatchSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.sessions[s.MatchID]
	for i := range sessions {
		if sessions[i].ID == s.ID {
			sessions[i] = s
			return nil
		}
	}
	return fmt.Errorf("session %s not found", s.ID)
}

func (m *memStore) UpdateMatch(_ context.Context, match models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[match.ID]; !ok {
		return fmt.Errorf("match %s not found", match.ID)
	}
	m.matches[match.ID] = match
	return nil
}

func (m *memStore) ListExternalKeys(_ context.Context, userID string) ([]models.ExternalKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ExternalKey(nil), m.keys[userID]...), nil
}

// stubAdapter serves a fixed trending list for one category.
type stubAdapter struct {
	category models.Category
	trending []models.ContentRecord
}

func (a *stubAdapter) Service() string           { return "stub" }
func (a *stubAdapter) Category() models.Category { return a.category }

func (a *stubAdapter) Search(_ context.Context, _ string, limit int) []models.ContentRecord {
	if limit > len(a.trending) {
		limit = len(a.trending)
	}
	return a.trending[:limit]
}

func (a *stubAdapter) Trending(_ context.Context, limit int) []models.ContentRecord {
	if limit > len(a.trending) {
		limit = len(a.trending)
	}
	return a.trending[:limit]
}

func (a *stubAdapter) Details(_ context.Context, externalID string) (models.ContentRecord, bool) {
	for _, rec := range a.trending {
		if rec.ExternalID == externalID {
			return rec, true
		}
	}
	return models.ContentRecord{}, false
}

func stubRegistry(perCategory int) provider.Registry {
	registry := provider.Registry{}
	for _, category := range models.Categories {
		recs := make([]models.ContentRecord, perCategory)
		for i := range recs {
			recs[i] = models.ContentRecord{
				ExternalID: fmt.Sprintf("%s-%d", category, i+1),
				Source:     models.SourceTMDB,
				Category:   category,
				Title:      fmt.Sprintf("%s Title %d", category, i+1),
			}
		}
		registry[category] = &stubAdapter{category: category, trending: recs}
	}
	return registry
}

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	cfg := config.VersusConfig{DefaultRounds: 3, PoolSize: 12}
	engine := NewEngine(store, store, store, store, stubRegistry(10), cfg)
	engine.SeedRand(1)
	return engine, store
}
