// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tastevin-app/tastevin/internal/metrics"
	"github.com/tastevin-app/tastevin/internal/models"
)

// SubmitResult describes the state after one choice submission.
type SubmitResult struct {
	Match   models.Match        `json:"match"`
	Session models.MatchSession `json:"session"`

	RoundCompleted bool `json:"round_completed"`
	IsMatch        bool `json:"is_match"`
	MatchCompleted bool `json:"match_completed"`
}

func (e *Engine) matchLock(matchID string) *sync.Mutex {
	lock, _ := e.matchLocks.LoadOrStore(matchID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// GeneratePool assembles candidate content for a match between two
// users: an even split across the four categories, excluding anything
// either user has already marked or has on their list, shuffled.
func (e *Engine) GeneratePool(ctx context.Context, userA, userB string, size int) ([]models.ContentRecord, error) {
	if size <= 0 {
		size = e.cfg.PoolSize
	}

	known := make(map[models.ExternalKey]struct{})
	for _, user := range []string{userA, userB} {
		prefs, err := e.prefs.ListPreferences(ctx, user)
		if err != nil {
			return nil, err
		}
		for _, p := range prefs {
			known[models.ExternalKey{ExternalID: p.ExternalID, Source: p.Source}] = struct{}{}
		}
		keys, err := e.collection.ListExternalKeys(ctx, user)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			known[k] = struct{}{}
		}
	}

	perCategory := size / len(models.Categories)
	if perCategory < 1 {
		perCategory = 1
	}

	var pool []models.ContentRecord
	for _, category := range models.Categories {
		adapter, ok := e.adapters.ForCategory(category)
		if !ok {
			continue
		}
		// Over-fetch so filtering known content still fills the slot.
		candidates := adapter.Trending(ctx, perCategory*2)
		taken := 0
		for _, rec := range candidates {
			if _, seen := known[rec.Key()]; seen {
				continue
			}
			known[rec.Key()] = struct{}{}
			pool = append(pool, rec)
			taken++
			if taken >= perCategory {
				break
			}
		}
	}

	e.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > size {
		// The per-category floor of one can overshoot small sizes.
		pool = pool[:size]
	}
	return pool, nil
}

// CreateMatch starts a versus match between two friends. rounds <= 0
// uses the configured default. The full round plan is generated and
// persisted up front, so a match never blocks on providers mid-game.
func (e *Engine) CreateMatch(ctx context.Context, user1, user2 string, rounds int) (models.Match, error) {
	if user1 == user2 {
		return models.Match{}, ErrSelfMatch
	}

	friends, err := e.friends.AreFriends(ctx, user1, user2)
	if err != nil {
		return models.Match{}, err
	}
	if !friends {
		return models.Match{}, ErrNotFriends
	}

	if rounds <= 0 {
		rounds = e.cfg.DefaultRounds
	}

	pool, err := e.GeneratePool(ctx, user1, user2, e.cfg.PoolSize)
	if err != nil {
		return models.Match{}, err
	}
	if len(pool) < rounds {
		return models.Match{}, ErrPoolExhausted
	}

	match := models.Match{
		ID:           uuid.New().String(),
		User1:        user1,
		User2:        user2,
		TotalRounds:  rounds,
		CurrentRound: 1,
		Status:       models.MatchActive,
		CreatedAt:    time.Now().UTC(),
	}

	sessions := make([]models.MatchSession, rounds)
	for i := 0; i < rounds; i++ {
		rec := pool[i]
		sessions[i] = models.MatchSession{
			ID:          uuid.New().String(),
			MatchID:     match.ID,
			RoundNumber: i + 1,
			ExternalID:  rec.ExternalID,
			Source:      rec.Source,
			Category:    rec.Category,
			Title:       rec.Title,
			Metadata:    rec.Metadata,
		}
	}

	if err := e.matches.CreateMatch(ctx, match, sessions); err != nil {
		return models.Match{}, err
	}
	metrics.VersusMatchesCreated.Inc()
	return match, nil
}

// SubmitChoice records one player's stance on the current round. Only
// LIKE and DISLIKE are playable choices. Submissions for one match are
// serialized; concurrent calls from both players cannot lose a choice
// or complete a round twice.
//
// When both players have chosen, the round completes: agreement on
// either option is a matched round and scores both players a point.
// Completing the final round completes the match and computes its
// compatibility score exactly once.
func (e *Engine) SubmitChoice(ctx context.Context, matchID, userID string, action models.Action) (SubmitResult, error) {
	if action != models.ActionLike && action != models.ActionDislike {
		return SubmitResult{}, ErrInvalidAction
	}

	lock := e.matchLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, sessions, err := e.matches.GetMatch(ctx, matchID)
	if err != nil {
		return SubmitResult{}, err
	}
	if match.Status != models.MatchActive {
		return SubmitResult{}, ErrMatchCompleted
	}

	var isPlayer1 bool
	switch userID {
	case match.User1:
		isPlayer1 = true
	case match.User2:
		isPlayer1 = false
	default:
		return SubmitResult{}, ErrNotParticipant
	}

	if match.CurrentRound < 1 || match.CurrentRound > len(sessions) {
		return SubmitResult{}, ErrMatchCompleted
	}
	session := sessions[match.CurrentRound-1]
	if session.IsCompleted {
		return SubmitResult{}, ErrRoundCompleted
	}

	if isPlayer1 {
		if session.Choice1 != "" {
			return SubmitResult{}, ErrAlreadyChose
		}
		session.Choice1 = action
	} else {
		if session.Choice2 != "" {
			return SubmitResult{}, ErrAlreadyChose
		}
		session.Choice2 = action
	}
	metrics.VersusChoicesSubmitted.Inc()

	result := SubmitResult{}
	if session.Choice1 != "" && session.Choice2 != "" {
		session.IsCompleted = true
		session.IsMatch = session.Choice1 == session.Choice2
		result.RoundCompleted = true
		result.IsMatch = session.IsMatch

		if session.IsMatch {
			// A matched round scores both players.
			match.Score1++
			match.Score2++
			metrics.VersusRoundsMatched.Inc()
		}
	}

	if err := e.matches.UpdateSession(ctx, session); err != nil {
		return SubmitResult{}, err
	}

	if result.RoundCompleted {
		if match.CurrentRound >= match.TotalRounds {
			match.Status = models.MatchCompleted
			now := time.Now().UTC()
			match.CompletedAt = &now
			result.MatchCompleted = true

			compat, err := e.Compatibility(ctx, match.User1, match.User2)
			if err == nil {
				match.CompatScore = &compat.Score
			}
			metrics.VersusMatchesCompleted.Inc()
		} else {
			match.CurrentRound++
		}
		if err := e.matches.UpdateMatch(ctx, match); err != nil {
			return SubmitResult{}, err
		}
	}

	result.Match = match
	result.Session = session
	return result, nil
}

// MatchResults returns a match and all of its round sessions.
func (e *Engine) MatchResults(ctx context.Context, matchID string) (models.Match, []models.MatchSession, error) {
	return e.matches.GetMatch(ctx, matchID)
}
