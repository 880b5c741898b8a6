// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func pref(user, externalID string, action models.Action) models.Preference {
	return models.Preference{
		UserID:     user,
		ExternalID: externalID,
		Source:     models.SourceTMDB,
		Category:   models.CategoryFilms,
		Action:     action,
		Title:      "Some Film",
	}
}

func TestUpsertPreferenceCounters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertPreference(ctx, pref("alice", "100", models.ActionAdded)); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	profile, err := db.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 1 {
		t.Errorf("Expected 1/1 after first add, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	// Re-marking the same content must not inflate either counter.
	for i := 0; i < 3; i++ {
		if _, err := db.UpsertPreference(ctx, pref("alice", "100", models.ActionAdded)); err != nil {
			t.Fatalf("Repeat upsert failed: %v", err)
		}
	}
	profile, _ = db.GetProfile(ctx, "alice")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 1 {
		t.Errorf("Repeat adds inflated counters: %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	// A plain like counts the sighting but not a successful match.
	if _, err := db.UpsertPreference(ctx, pref("alice", "101", models.ActionLike)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	profile, _ = db.GetProfile(ctx, "alice")
	if profile.TotalMatches != 2 || profile.SuccessfulMatches != 1 {
		t.Errorf("Expected 2/1 after like, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}
}

func TestUpsertPreferenceActionFlip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertPreference(ctx, pref("bob", "200", models.ActionLike)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := db.UpsertPreference(ctx, pref("bob", "200", models.ActionDislike)); err != nil {
		t.Fatalf("Flip upsert failed: %v", err)
	}

	profile, _ := db.GetProfile(ctx, "bob")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 0 {
		t.Errorf("Expected 1/0 after like->dislike, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	prefs, err := db.ListPreferences(ctx, "bob")
	if err != nil {
		t.Fatalf("ListPreferences failed: %v", err)
	}
	if len(prefs) != 1 || prefs[0].Action != models.ActionDislike {
		t.Errorf("Expected single DISLIKE preference, got %+v", prefs)
	}
}

func TestUpsertPreferenceCountersMonotonic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Transition into ADDED bumps successful_matches once.
	if _, err := db.UpsertPreference(ctx, pref("carol", "300", models.ActionDislike)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := db.UpsertPreference(ctx, pref("carol", "300", models.ActionAdded)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	profile, _ := db.GetProfile(ctx, "carol")
	if profile.TotalMatches != 1 || profile.SuccessfulMatches != 1 {
		t.Errorf("Expected 1/1 after dislike->added, got %d/%d", profile.TotalMatches, profile.SuccessfulMatches)
	}

	// Leaving ADDED never takes the point back.
	if _, err := db.UpsertPreference(ctx, pref("carol", "300", models.ActionLike)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	profile, _ = db.GetProfile(ctx, "carol")
	if profile.SuccessfulMatches != 1 {
		t.Errorf("successful_matches went down: %d", profile.SuccessfulMatches)
	}

	// Re-entering ADDED is a genuine transition and counts again.
	if _, err := db.UpsertPreference(ctx, pref("carol", "300", models.ActionAdded)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	profile, _ = db.GetProfile(ctx, "carol")
	if profile.SuccessfulMatches != 2 {
		t.Errorf("Expected 2 after a second transition into ADDED, got %d", profile.SuccessfulMatches)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	db := newTestDB(t)

	profile, err := db.GetProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.TotalMatches != 0 || profile.SuccessfulMatches != 0 {
		t.Errorf("Expected zeroed profile, got %+v", profile)
	}
}

func TestFriendshipLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.RequestFriendship(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RequestFriendship failed: %v", err)
	}

	// Pending is not friends yet.
	friends, err := db.AreFriends(ctx, "alice", "bob")
	if err != nil || friends {
		t.Errorf("Expected not friends while PENDING, got %v err=%v", friends, err)
	}

	// The requester cannot accept their own request.
	if _, err := db.RespondFriendship(ctx, "alice", "bob", true); err == nil {
		t.Error("Expected error when requester responds to own request")
	}

	f, err := db.RespondFriendship(ctx, "bob", "alice", true)
	if err != nil {
		t.Fatalf("RespondFriendship failed: %v", err)
	}
	if f.Status != models.FriendshipAccepted {
		t.Errorf("Expected ACCEPTED, got %s", f.Status)
	}

	// Symmetric in either argument order.
	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		friends, err := db.AreFriends(ctx, pair[0], pair[1])
		if err != nil || !friends {
			t.Errorf("Expected %s and %s to be friends, got %v err=%v", pair[0], pair[1], friends, err)
		}
	}
}

func TestFriendshipDuplicateRequest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.RequestFriendship(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RequestFriendship failed: %v", err)
	}
	if _, err := db.RequestFriendship(ctx, "bob", "alice"); !errors.Is(err, ErrFriendshipExists) {
		t.Errorf("Expected ErrFriendshipExists for reverse duplicate, got %v", err)
	}
}

func TestItemRefUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	item1, err := db.CreateItem(ctx, "alice", models.CategoryFilms, "Dune")
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	item2, err := db.CreateItem(ctx, "bob", models.CategoryFilms, "Dune Again")
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	ref := models.ExternalRef{
		ItemID:     item1.ID,
		ExternalID: "438631",
		Source:     models.SourceTMDB,
		Title:      "Dune",
	}
	if err := db.UpsertRef(ctx, ref); err != nil {
		t.Fatalf("UpsertRef failed: %v", err)
	}

	// Re-enriching the same item updates in place.
	ref.Title = "Dune (2021)"
	if err := db.UpsertRef(ctx, ref); err != nil {
		t.Fatalf("Re-upsert failed: %v", err)
	}

	// The same provider content cannot attach to a second item.
	ref.ItemID = item2.ID
	if err := db.UpsertRef(ctx, ref); !errors.Is(err, ErrRefConflict) {
		t.Errorf("Expected ErrRefConflict, got %v", err)
	}

	got, err := db.GetItem(ctx, item1.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Ref == nil || got.Ref.Title != "Dune (2021)" {
		t.Errorf("Ref not updated in place: %+v", got.Ref)
	}
}

func TestListItemsJoinsRefs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enriched, _ := db.CreateItem(ctx, "alice", models.CategoryLivres, "The Hobbit")
	_, _ = db.CreateItem(ctx, "alice", models.CategoryLivres, "Unknown Book")

	if err := db.UpsertRef(ctx, models.ExternalRef{
		ItemID:     enriched.ID,
		ExternalID: "gb-1",
		Source:     models.SourceGoogleBooks,
		Title:      "The Hobbit",
	}); err != nil {
		t.Fatalf("UpsertRef failed: %v", err)
	}

	items, err := db.ListItems(ctx, "alice", models.CategoryLivres)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	var withRef, withoutRef int
	for _, item := range items {
		if item.Enriched() {
			withRef++
		} else {
			withoutRef++
		}
	}
	if withRef != 1 || withoutRef != 1 {
		t.Errorf("Expected 1 enriched and 1 bare item, got %d/%d", withRef, withoutRef)
	}
}

func TestListStaleItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bare, _ := db.CreateItem(ctx, "alice", models.CategoryFilms, "Unmatched Film")
	stale, _ := db.CreateItem(ctx, "alice", models.CategoryFilms, "Old Film")
	fresh, _ := db.CreateItem(ctx, "alice", models.CategoryFilms, "New Film")

	if err := db.UpsertRef(ctx, models.ExternalRef{
		ItemID:     stale.ID,
		ExternalID: "tmdb-1",
		Source:     models.SourceTMDB,
		Title:      "Old Film",
		AttachedAt: time.Now().UTC().Add(-30 * 24 * time.Hour),
	}); err != nil {
		t.Fatalf("UpsertRef failed: %v", err)
	}
	if err := db.UpsertRef(ctx, models.ExternalRef{
		ItemID:     fresh.ID,
		ExternalID: "tmdb-2",
		Source:     models.SourceTMDB,
		Title:      "New Film",
	}); err != nil {
		t.Fatalf("UpsertRef failed: %v", err)
	}

	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	items, err := db.ListStaleItems(ctx, cutoff, 50)
	if err != nil {
		t.Fatalf("ListStaleItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 stale items, got %d", len(items))
	}
	found := map[string]bool{}
	for _, item := range items {
		found[item.ID] = true
	}
	if !found[bare.ID] || !found[stale.ID] {
		t.Errorf("Expected bare and stale items, got %v", found)
	}
	if found[fresh.ID] {
		t.Error("Freshly enriched item should not be listed")
	}

	limited, err := db.ListStaleItems(ctx, cutoff, 1)
	if err != nil {
		t.Fatalf("ListStaleItems with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to cap the batch, got %d items", len(limited))
	}
}

func TestMatchRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	match := models.Match{
		ID:           "match-1",
		User1:        "alice",
		User2:        "bob",
		TotalRounds:  2,
		CurrentRound: 1,
		Status:       models.MatchActive,
		CreatedAt:    now,
	}
	sessions := []models.MatchSession{
		{ID: "s-1", MatchID: "match-1", RoundNumber: 1, ExternalID: "100", Source: models.SourceTMDB, Category: models.CategoryFilms, Title: "Film A"},
		{ID: "s-2", MatchID: "match-1", RoundNumber: 2, ExternalID: "200", Source: models.SourceTMDB, Category: models.CategoryFilms, Title: "Film B"},
	}
	if err := db.CreateMatch(ctx, match, sessions); err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}

	got, gotSessions, err := db.GetMatch(ctx, "match-1")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if got.Status != models.MatchActive || got.CurrentRound != 1 {
		t.Errorf("Unexpected match state: %+v", got)
	}
	if len(gotSessions) != 2 || gotSessions[0].RoundNumber != 1 || gotSessions[1].RoundNumber != 2 {
		t.Errorf("Sessions not ordered by round: %+v", gotSessions)
	}

	// Complete round 1 and the match.
	s := gotSessions[0]
	s.Choice1 = models.ActionLike
	s.Choice2 = models.ActionLike
	s.IsCompleted = true
	s.IsMatch = true
	if err := db.UpdateSession(ctx, s); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	compat := 72.5
	done := time.Now().UTC()
	got.CurrentRound = 2
	got.Score1, got.Score2 = 1, 1
	got.Status = models.MatchCompleted
	got.CompatScore = &compat
	got.CompletedAt = &done
	if err := db.UpdateMatch(ctx, got); err != nil {
		t.Fatalf("UpdateMatch failed: %v", err)
	}

	final, finalSessions, err := db.GetMatch(ctx, "match-1")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if final.Status != models.MatchCompleted || final.CompatScore == nil || *final.CompatScore != 72.5 {
		t.Errorf("Match completion not persisted: %+v", final)
	}
	if !finalSessions[0].IsCompleted || !finalSessions[0].IsMatch {
		t.Errorf("Session completion not persisted: %+v", finalSessions[0])
	}
}

func TestGetMatchNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, _, err := db.GetMatch(context.Background(), "missing"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("Expected ErrMatchNotFound, got %v", err)
	}
}
