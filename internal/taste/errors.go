// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package taste

import "errors"

var (
	// ErrMatchCompleted is returned when a choice targets a match with
	// no active session left.
	ErrMatchCompleted = errors.New("no active session")

	// ErrRoundCompleted is returned when a choice targets a round both
	// players have already finished.
	ErrRoundCompleted = errors.New("round already completed")

	// ErrAlreadyChose is returned when a player re-submits a choice for
	// the current round.
	ErrAlreadyChose = errors.New("choice already submitted for this round")

	// ErrNotFriends is returned when a match is requested between users
	// without an accepted friendship.
	ErrNotFriends = errors.New("users are not friends")

	// ErrNotParticipant is returned when the submitting user is not one
	// of the match's two players.
	ErrNotParticipant = errors.New("user is not a participant of this match")

	// ErrSelfMatch is returned when a user tries to play against
	// themselves.
	ErrSelfMatch = errors.New("cannot create a match against yourself")

	// ErrInvalidAction is returned for an action the operation does not
	// accept: anything outside LIKE/DISLIKE/ADDED for mark-seen, anything
	// outside LIKE/DISLIKE for a versus choice.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidCategory is returned for an unknown content category.
	ErrInvalidCategory = errors.New("invalid content category")

	// ErrPoolExhausted is returned when the candidate pool, after
	// filtering known content, cannot fill the requested rounds.
	ErrPoolExhausted = errors.New("candidate pool too small for requested rounds")
)
