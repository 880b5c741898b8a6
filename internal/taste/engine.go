// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/models"
	"github.com/tastevin-app/tastevin/internal/provider"
)

// PreferenceStore persists user stances and aggregate profiles.
type PreferenceStore interface {
	UpsertPreference(ctx context.Context, pref models.Preference) (models.Preference, error)
	ListPreferences(ctx context.Context, userID string) ([]models.Preference, error)
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
}

// FriendStore answers friendship queries.
type FriendStore interface {
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

// MatchStore persists versus matches and their round sessions.
type MatchStore interface {
	CreateMatch(ctx context.Context, match models.Match, sessions []models.MatchSession) error
	GetMatch(ctx context.Context, matchID string) (models.Match, []models.MatchSession, error)
	UpdateSession(ctx context.Context, s models.MatchSession) error
	UpdateMatch(ctx context.Context, m models.Match) error
}

// CollectionStore exposes the provider content already on a user's list.
type CollectionStore interface {
	ListExternalKeys(ctx context.Context, userID string) ([]models.ExternalKey, error)
}

// Engine implements the taste domain: recording preferences, scoring
// pairwise compatibility, and running versus matches. All persistence
// goes through the injected stores; all catalog access through the
// adapter registry.
type Engine struct {
	prefs      PreferenceStore
	friends    FriendStore
	matches    MatchStore
	collection CollectionStore
	adapters   provider.Registry
	cfg        config.VersusConfig

	// matchLocks serializes choice submission per match id.
	matchLocks sync.Map

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine wires a taste engine over the given stores and adapters.
func NewEngine(prefs PreferenceStore, friends FriendStore, matches MatchStore, collection CollectionStore, adapters provider.Registry, cfg config.VersusConfig) *Engine {
	return &Engine{
		prefs:      prefs,
		friends:    friends,
		matches:    matches,
		collection: collection,
		adapters:   adapters,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedRand replaces the engine's random source, used by tests that need
// deterministic pool shuffles.
func (e *Engine) SeedRand(seed int64) {
	e.rngMu.Lock()
	e.rng = rand.New(rand.NewSource(seed))
	e.rngMu.Unlock()
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.rngMu.Lock()
	e.rng.Shuffle(n, swap)
	e.rngMu.Unlock()
}

// MarkContentAsSeen records a user's stance on provider content. The
// operation is idempotent on (user, external_id, source): repeating an
// action only refreshes timestamps, flipping it rewrites the stance in
// place. Profile counters follow the store's transactional rules.
func (e *Engine) MarkContentAsSeen(ctx context.Context, userID string, content models.ContentRecord, action models.Action) (models.Preference, error) {
	if !action.Valid() {
		return models.Preference{}, ErrInvalidAction
	}
	if !content.Category.Valid() {
		return models.Preference{}, ErrInvalidCategory
	}

	return e.prefs.UpsertPreference(ctx, models.Preference{
		UserID:     userID,
		ExternalID: content.ExternalID,
		Source:     content.Source,
		Category:   content.Category,
		Action:     action,
		Title:      content.Title,
		Metadata:   content.Metadata,
	})
}

// Profile returns a user's aggregate counters.
func (e *Engine) Profile(ctx context.Context, userID string) (models.Profile, error) {
	return e.prefs.GetProfile(ctx, userID)
}

// Preferences returns a user's full preference history.
func (e *Engine) Preferences(ctx context.Context, userID string) ([]models.Preference, error) {
	return e.prefs.ListPreferences(ctx, userID)
}

// Compatibility scores how aligned two users' tastes are:
//
//	score = common_likes*10 + common_dislikes*5 + category_overlap*20 - opposites*15
//
// where category_overlap is the Jaccard ratio of the two users' liked
// categories, clamped to [0,100] and rounded to 2 decimals. The score
// is symmetric in its arguments. When either user has no recorded
// preferences the pair scores the neutral 50.0 with Neutral set;
// otherwise disjoint histories bottom out at 0.
func (e *Engine) Compatibility(ctx context.Context, userA, userB string) (models.CompatibilityResult, error) {
	prefsA, err := e.prefs.ListPreferences(ctx, userA)
	if err != nil {
		return models.CompatibilityResult{}, err
	}
	prefsB, err := e.prefs.ListPreferences(ctx, userB)
	if err != nil {
		return models.CompatibilityResult{}, err
	}

	result := scoreCompatibility(prefsA, prefsB)
	result.UserA = userA
	result.UserB = userB
	return result, nil
}

func scoreCompatibility(prefsA, prefsB []models.Preference) models.CompatibilityResult {
	var result models.CompatibilityResult
	if len(prefsA) == 0 || len(prefsB) == 0 {
		result.Score = 50.0
		result.Neutral = true
		return result
	}

	byKeyA := make(map[models.ExternalKey]models.Action, len(prefsA))
	likedCatsA := make(map[models.Category]struct{})
	for _, p := range prefsA {
		byKeyA[models.ExternalKey{ExternalID: p.ExternalID, Source: p.Source}] = p.Action
		if p.Action == models.ActionLike {
			likedCatsA[p.Category] = struct{}{}
		}
	}

	likedCatsB := make(map[models.Category]struct{})
	for _, p := range prefsB {
		if p.Action == models.ActionLike {
			likedCatsB[p.Category] = struct{}{}
		}
		actionA, shared := byKeyA[models.ExternalKey{ExternalID: p.ExternalID, Source: p.Source}]
		if !shared {
			continue
		}
		// Pairs involving ADDED are neither agreement nor opposition.
		switch {
		case actionA == models.ActionLike && p.Action == models.ActionLike:
			result.CommonLikes++
		case actionA == models.ActionDislike && p.Action == models.ActionDislike:
			result.CommonDislikes++
		case actionA == models.ActionLike && p.Action == models.ActionDislike,
			actionA == models.ActionDislike && p.Action == models.ActionLike:
			result.Opposites++
		}
	}

	// Jaccard ratio over liked categories, 0 when either side liked
	// nothing.
	intersection := 0
	union := len(likedCatsA)
	for c := range likedCatsB {
		if _, ok := likedCatsA[c]; ok {
			intersection++
		} else {
			union++
		}
	}
	if len(likedCatsA) > 0 && len(likedCatsB) > 0 {
		result.CategoryOverlap = float64(intersection) / float64(union)
	}

	score := float64(result.CommonLikes)*10 +
		float64(result.CommonDislikes)*5 +
		result.CategoryOverlap*20 -
		float64(result.Opposites)*15
	score = math.Max(0, math.Min(100, score))
	result.Score = math.Round(score*100) / 100
	return result
}
