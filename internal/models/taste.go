// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package models

import "time"

// Action is a user's recorded stance on a piece of content.
type Action string

const (
	ActionLike    Action = "LIKE"
	ActionDislike Action = "DISLIKE"
	// ActionAdded means the user put the content on a list.
	ActionAdded Action = "ADDED"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionLike, ActionDislike, ActionAdded:
		return true
	}
	return false
}

// Preference records one user's stance on one piece of external content.
// The (UserID, ExternalID, Source) triple is unique; re-marking the same
// content overwrites the action in place.
type Preference struct {
	UserID     string                 `json:"user_id"`
	ExternalID string                 `json:"external_id"`
	Source     Source                 `json:"source"`
	Category   Category               `json:"content_type"`
	Action     Action                 `json:"action"`
	Title      string                 `json:"title"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Profile carries a user's aggregate taste counters. TotalMatches counts
// distinct contents the user has marked; SuccessfulMatches counts
// transitions into ADDED. Both counters only ever grow: re-marking
// already-seen content never inflates TotalMatches, and moving away from
// ADDED never takes a SuccessfulMatches point back.
type Profile struct {
	UserID            string    `json:"user_id"`
	TotalMatches      int       `json:"total_matches"`
	SuccessfulMatches int       `json:"successful_matches"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FriendshipStatus is the lifecycle state of a friendship request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

// Friendship links two users. Requester/Addressee preserve who initiated;
// storage normalizes the pair so at most one row exists per pair.
type Friendship struct {
	Requester string           `json:"requester"`
	Addressee string           `json:"addressee"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CompatibilityResult is the outcome of a pairwise compatibility
// computation. Score is clamped to [0,100] and rounded to 2 decimals;
// when either user has no history at all the pair scores the neutral
// 50.0. CategoryOverlap is the Jaccard ratio of the two users' liked
// categories, in [0,1].
type CompatibilityResult struct {
	UserA           string  `json:"user_a"`
	UserB           string  `json:"user_b"`
	Score           float64 `json:"score"`
	CommonLikes     int     `json:"common_likes"`
	CommonDislikes  int     `json:"common_dislikes"`
	CategoryOverlap float64 `json:"category_overlap"`
	Opposites       int     `json:"opposites"`
	Neutral         bool    `json:"neutral"`
}

// MatchStatus is the lifecycle state of a versus match.
type MatchStatus string

const (
	MatchActive    MatchStatus = "ACTIVE"
	MatchCompleted MatchStatus = "COMPLETED"
)

// Match is one versus game between two friends: a fixed number of rounds
// played over a pre-generated content pool. CurrentRound is 1-based and
// advances only when both players have chosen.
type Match struct {
	ID           string      `json:"id"`
	User1        string      `json:"user1"`
	User2        string      `json:"user2"`
	TotalRounds  int         `json:"total_rounds"`
	CurrentRound int         `json:"current_round"`
	Score1       int         `json:"score1"`
	Score2       int         `json:"score2"`
	Status       MatchStatus `json:"status"`
	// CompatScore is computed exactly once, at completion.
	CompatScore *float64   `json:"compat_score,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MatchSession is one round of a match: a single content item both
// players judge independently. Choice1/Choice2 are empty until the
// respective player submits.
type MatchSession struct {
	ID          string                 `json:"id"`
	MatchID     string                 `json:"match_id"`
	RoundNumber int                    `json:"round_number"`
	ExternalID  string                 `json:"external_id"`
	Source      Source                 `json:"source"`
	Category    Category               `json:"content_type"`
	Title       string                 `json:"title"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Choice1     Action                 `json:"choice1,omitempty"`
	Choice2     Action                 `json:"choice2,omitempty"`
	IsCompleted bool                   `json:"is_completed"`
	// IsMatch is true when both players chose the same option.
	IsMatch bool `json:"is_match"`
}
