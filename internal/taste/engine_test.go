// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import (
	"context"
	"testing"

	"github.com/tastevin-app/tastevin/internal/models"
)

func film(id string) models.ContentRecord {
	return models.ContentRecord{
		ExternalID: id,
		Source:     models.SourceTMDB,
		Category:   models.CategoryFilms,
		Title:      "Film " + id,
	}
}

func track(id string) models.ContentRecord {
	return models.ContentRecord{
		ExternalID: id,
		Source:     models.SourceDeezer,
		Category:   models.CategoryMusique,
		Title:      "Track " + id,
	}
}

func TestMarkContentAsSeenIdempotent(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := engine.MarkContentAsSeen(ctx, "alice", film("100"), models.ActionAdded); err != nil {
			t.Fatalf("MarkContentAsSeen failed: %v", err)
		}
	}

	profile, err := engine.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 1 {
		t.Errorf("Repeat marks inflated counters: %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}
}

func TestMarkContentAsSeenAddedCounters(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// LIKE alone never moves successful_matches.
	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionLike); err != nil {
		t.Fatalf("MarkContentAsSeen failed: %v", err)
	}
	profile, _ := engine.Profile(ctx, "alice")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 0 {
		t.Errorf("Expected 1/0 after LIKE, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	// Transition into ADDED bumps it once.
	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionAdded); err != nil {
		t.Fatalf("MarkContentAsSeen failed: %v", err)
	}
	profile, _ = engine.Profile(ctx, "alice")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 1 {
		t.Errorf("Expected 1/1 after ADDED, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	// Leaving ADDED never takes the point back.
	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionDislike); err != nil {
		t.Fatalf("MarkContentAsSeen failed: %v", err)
	}
	profile, _ = engine.Profile(ctx, "alice")
	if profile.SuccessfulMatches != 1 {
		t.Errorf("successful_matches decremented to %d", profile.SuccessfulMatches)
	}
}

func TestMarkContentAsSeenFlip(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("100"), models.ActionLike); err != nil {
		t.Fatalf("MarkContentAsSeen failed: %v", err)
	}
	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("100"), models.ActionDislike); err != nil {
		t.Fatalf("MarkContentAsSeen failed: %v", err)
	}

	profile, _ := engine.Profile(ctx, "alice")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 0 {
		t.Errorf("Expected 1/0 after flip, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	prefs, _ := engine.Preferences(ctx, "alice")
	if len(prefs) != 1 || prefs[0].Action != models.ActionDislike {
		t.Errorf("Expected single DISLIKE, got %+v", prefs)
	}
}

func TestMarkContentAsSeenValidation(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	if _, err := engine.MarkContentAsSeen(ctx, "alice", film("1"), models.Action("MAYBE")); err != ErrInvalidAction {
		t.Errorf("Expected ErrInvalidAction, got %v", err)
	}

	bad := film("1")
	bad.Category = "PODCASTS"
	if _, err := engine.MarkContentAsSeen(ctx, "alice", bad, models.ActionLike); err != ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestCompatibilityNeutral(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// Two blank users.
	result, err := engine.Compatibility(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Compatibility failed: %v", err)
	}
	if result.Score != 50.0 || !result.Neutral {
		t.Errorf("Expected neutral 50.0, got %v neutral=%v", result.Score, result.Neutral)
	}

	// One user with history, one blank: still neutral.
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionLike)
	result, _ = engine.Compatibility(ctx, "alice", "bob")
	if result.Score != 50.0 || !result.Neutral {
		t.Errorf("Expected neutral for one-sided history, got %v neutral=%v", result.Score, result.Neutral)
	}
}

func TestCompatibilityDisjointHistories(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// Both users have history but share nothing, not even a liked
	// category: the formula bottoms out at 0, it does not go neutral.
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", track("9"), models.ActionLike)

	result, err := engine.Compatibility(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Compatibility failed: %v", err)
	}
	if result.Neutral {
		t.Error("Disjoint histories reported neutral")
	}
	if result.Score != 0.0 {
		t.Errorf("Expected 0.0 for disjoint histories, got %v", result.Score)
	}
}

func TestCompatibilityScoring(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// 2 common likes, 1 common dislike, 1 opposite, full liked-category
	// overlap: 2*10 + 1*5 + 1.0*20 - 1*15 = 30.
	for _, id := range []string{"1", "2"} {
		_, _ = engine.MarkContentAsSeen(ctx, "alice", film(id), models.ActionLike)
		_, _ = engine.MarkContentAsSeen(ctx, "bob", film(id), models.ActionLike)
	}
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("3"), models.ActionDislike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", film("3"), models.ActionDislike)
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("4"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", film("4"), models.ActionDislike)

	result, err := engine.Compatibility(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Compatibility failed: %v", err)
	}
	if result.Score != 30.0 {
		t.Errorf("Expected score 30.0, got %v", result.Score)
	}
	if result.CommonLikes != 2 || result.CommonDislikes != 1 || result.Opposites != 1 || result.CategoryOverlap != 1.0 {
		t.Errorf("Unexpected breakdown: %+v", result)
	}
	if result.Neutral {
		t.Error("Overlapping pair reported neutral")
	}
}

func TestCompatibilityJaccardOverlap(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// Alice likes a film and a track, Bob likes only the film: one
	// common like and a liked-category Jaccard of 1/2, so
	// 1*10 + 0.5*20 = 20.
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "alice", track("9"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", film("1"), models.ActionLike)

	result, err := engine.Compatibility(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Compatibility failed: %v", err)
	}
	if result.CategoryOverlap != 0.5 {
		t.Errorf("Expected Jaccard 0.5, got %v", result.CategoryOverlap)
	}
	if result.Score != 20.0 {
		t.Errorf("Expected score 20.0, got %v", result.Score)
	}
}

func TestCompatibilityAddedIsNotOpposition(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// Adding to a list does not oppose the other user's like.
	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionAdded)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", film("1"), models.ActionLike)

	result, err := engine.Compatibility(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Compatibility failed: %v", err)
	}
	if result.Opposites != 0 {
		t.Errorf("ADDED vs LIKE counted as opposite: %+v", result)
	}
	if result.CommonLikes != 0 || result.CommonDislikes != 0 {
		t.Errorf("ADDED vs LIKE counted as agreement: %+v", result)
	}
}

func TestCompatibilitySymmetric(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, _ = engine.MarkContentAsSeen(ctx, "alice", film("1"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", film("1"), models.ActionDislike)
	_, _ = engine.MarkContentAsSeen(ctx, "alice", track("9"), models.ActionLike)
	_, _ = engine.MarkContentAsSeen(ctx, "bob", track("9"), models.ActionLike)

	ab, _ := engine.Compatibility(ctx, "alice", "bob")
	ba, _ := engine.Compatibility(ctx, "bob", "alice")
	if ab.Score != ba.Score {
		t.Errorf("Compatibility not symmetric: %v vs %v", ab.Score, ba.Score)
	}
}

func TestCompatibilityClamped(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	// All opposites drives the raw score below zero.
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		_, _ = engine.MarkContentAsSeen(ctx, "alice", film(id), models.ActionLike)
		_, _ = engine.MarkContentAsSeen(ctx, "bob", film(id), models.ActionDislike)
	}
	low, _ := engine.Compatibility(ctx, "alice", "bob")
	if low.Score != 0.0 {
		t.Errorf("Expected clamp to 0.0, got %v", low.Score)
	}

	// Many common likes drives it above one hundred.
	for i := 10; i < 30; i++ {
		rec := film(string(rune('a'+i)) + "x")
		_, _ = engine.MarkContentAsSeen(ctx, "carol", rec, models.ActionLike)
		_, _ = engine.MarkContentAsSeen(ctx, "dave", rec, models.ActionLike)
	}
	high, _ := engine.Compatibility(ctx, "carol", "dave")
	if high.Score != 100.0 {
		t.Errorf("Expected clamp to 100.0, got %v", high.Score)
	}
}
