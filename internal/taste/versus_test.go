// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tastevin-app/tastevin/internal/models"
)

func newMatch(t *testing.T, engine *Engine, store *memStore, rounds int) models.Match {
	t.Helper()
	store.befriend("alice", "bob")
	match, err := engine.CreateMatch(context.Background(), "alice", "bob", rounds)
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	return match
}

func TestCreateMatchRequiresFriendship(t *testing.T) {
	engine, _ := newTestEngine()

	if _, err := engine.CreateMatch(context.Background(), "alice", "bob", 3); !errors.Is(err, ErrNotFriends) {
		t.Errorf("Expected ErrNotFriends, got %v", err)
	}
	if _, err := engine.CreateMatch(context.Background(), "alice", "alice", 3); !errors.Is(err, ErrSelfMatch) {
		t.Errorf("Expected ErrSelfMatch, got %v", err)
	}
}

func TestCreateMatchDefaults(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 0)

	if match.TotalRounds != 3 {
		t.Errorf("Expected configured default rounds, got %d", match.TotalRounds)
	}
	if match.CurrentRound != 1 || match.Status != models.MatchActive {
		t.Errorf("Unexpected initial state: %+v", match)
	}

	_, sessions, err := engine.MatchResults(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("MatchResults failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 pre-generated sessions, got %d", len(sessions))
	}
}

func TestGeneratePoolExcludesKnownContent(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	// Alice has marked the first two FILMS candidates, bob added a third
	// to a list and has a fourth on his collection.
	_, _ = engine.MarkContentAsSeen(ctx, "alice", models.ContentRecord{
		ExternalID: "FILMS-1", Source: models.SourceTMDB, Category: models.CategoryFilms, Title: "x",
	}, models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "alice", models.ContentRecord{
		ExternalID: "FILMS-2", Source: models.SourceTMDB, Category: models.CategoryFilms, Title: "y",
	}, models.ActionDislike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", models.ContentRecord{
		ExternalID: "FILMS-4", Source: models.SourceTMDB, Category: models.CategoryFilms, Title: "z",
	}, models.ActionAdded)
	store.keys["bob"] = []models.ExternalKey{{ExternalID: "FILMS-3", Source: models.SourceTMDB}}

	pool, err := engine.GeneratePool(ctx, "alice", "bob", 12)
	if err != nil {
		t.Fatalf("GeneratePool failed: %v", err)
	}

	excluded := map[string]struct{}{"FILMS-1": {}, "FILMS-2": {}, "FILMS-3": {}, "FILMS-4": {}}
	seen := map[string]int{}
	for _, rec := range pool {
		if _, bad := excluded[rec.ExternalID]; bad {
			t.Errorf("Pool contains known content %s", rec.ExternalID)
		}
		seen[rec.ExternalID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("Pool contains %s %d times", id, n)
		}
	}
}

func TestSubmitChoiceFlow(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 2)
	ctx := context.Background()

	// Round 1: alice likes, round stays open.
	res, err := engine.SubmitChoice(ctx, match.ID, "alice", models.ActionLike)
	if err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	if res.RoundCompleted {
		t.Error("Round completed with one choice")
	}

	// Alice cannot vote twice in the same round.
	if _, err := engine.SubmitChoice(ctx, match.ID, "alice", models.ActionDislike); !errors.Is(err, ErrAlreadyChose) {
		t.Errorf("Expected ErrAlreadyChose, got %v", err)
	}

	// Bob agrees: matched round, both score, pointer advances.
	res, err = engine.SubmitChoice(ctx, match.ID, "bob", models.ActionLike)
	if err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	if !res.RoundCompleted || !res.IsMatch {
		t.Errorf("Expected matched round, got %+v", res)
	}
	if res.Match.Score1 != 1 || res.Match.Score2 != 1 {
		t.Errorf("Matched round should score both players, got %d/%d", res.Match.Score1, res.Match.Score2)
	}
	if res.Match.CurrentRound != 2 {
		t.Errorf("Expected round pointer at 2, got %d", res.Match.CurrentRound)
	}

	// Round 2: disagreement, no points, match completes.
	if _, err := engine.SubmitChoice(ctx, match.ID, "alice", models.ActionLike); err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	res, err = engine.SubmitChoice(ctx, match.ID, "bob", models.ActionDislike)
	if err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	if res.IsMatch {
		t.Error("Disagreement reported as match")
	}
	if !res.MatchCompleted || res.Match.Status != models.MatchCompleted {
		t.Errorf("Expected completed match, got %+v", res.Match)
	}
	if res.Match.Score1 != 1 || res.Match.Score2 != 1 {
		t.Errorf("Scores changed on unmatched round: %d/%d", res.Match.Score1, res.Match.Score2)
	}
	if res.Match.CompatScore == nil {
		t.Error("Completed match missing compatibility score")
	}
	if res.Match.CompletedAt == nil {
		t.Error("Completed match missing completion time")
	}

	// Further submissions hit the completed-match sentinel.
	if _, err := engine.SubmitChoice(ctx, match.ID, "alice", models.ActionLike); !errors.Is(err, ErrMatchCompleted) {
		t.Errorf("Expected ErrMatchCompleted, got %v", err)
	}
}

func TestGeneratePoolTruncatesToSize(t *testing.T) {
	engine, _ := newTestEngine()

	// A request below the category count still gets the per-category
	// floor of one candidate, then truncates.
	pool, err := engine.GeneratePool(context.Background(), "alice", "bob", 2)
	if err != nil {
		t.Fatalf("GeneratePool failed: %v", err)
	}
	if len(pool) != 2 {
		t.Errorf("Expected pool of 2, got %d", len(pool))
	}
}

func TestSubmitChoiceAgreementOnDislike(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 1)
	ctx := context.Background()

	// Agreeing that content is bad is still agreeing.
	if _, err := engine.SubmitChoice(ctx, match.ID, "alice", models.ActionDislike); err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	res, err := engine.SubmitChoice(ctx, match.ID, "bob", models.ActionDislike)
	if err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	if !res.IsMatch {
		t.Error("Shared DISLIKE not reported as a match")
	}
	if res.Match.Score1 != 1 || res.Match.Score2 != 1 {
		t.Errorf("Matched round should score both players, got %d/%d", res.Match.Score1, res.Match.Score2)
	}
}

func TestSubmitChoiceRejectsAdded(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 1)

	if _, err := engine.SubmitChoice(context.Background(), match.ID, "alice", models.ActionAdded); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction for ADDED, got %v", err)
	}
}

func TestSubmitChoiceNonParticipant(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 2)

	if _, err := engine.SubmitChoice(context.Background(), match.ID, "mallory", models.ActionLike); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("Expected ErrNotParticipant, got %v", err)
	}
}

func TestSubmitChoiceConcurrent(t *testing.T) {
	engine, store := newTestEngine()
	match := newMatch(t, engine, store, 1)
	ctx := context.Background()

	// Both players submit simultaneously; exactly one submission
	// completes the round and the match, and no choice is lost.
	var wg sync.WaitGroup
	for _, user := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if _, err := engine.SubmitChoice(ctx, match.ID, u, models.ActionLike); err != nil {
				t.Errorf("SubmitChoice(%s) failed: %v", u, err)
			}
		}(user)
	}
	wg.Wait()

	final, sessions, err := engine.MatchResults(ctx, match.ID)
	if err != nil {
		t.Fatalf("MatchResults failed: %v", err)
	}
	if final.Status != models.MatchCompleted {
		t.Errorf("Expected completed match, got %s", final.Status)
	}
	if !sessions[0].IsCompleted || !sessions[0].IsMatch {
		t.Errorf("Round state inconsistent after concurrent submit: %+v", sessions[0])
	}
	if final.Score1 != 1 || final.Score2 != 1 {
		t.Errorf("Expected 1/1 scores, got %d/%d", final.Score1, final.Score2)
	}
}
