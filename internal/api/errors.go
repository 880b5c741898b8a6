// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package api

import (
	"errors"
	"net/http"

	"github.com/tastevin-app/tastevin/internal/database"
	"github.com/tastevin-app/tastevin/internal/models"
	"github.com/tastevin-app/tastevin/internal/taste"
)

// respondTasteError maps domain errors onto HTTP statuses and stable
// error codes. Unrecognized errors become opaque 500s.
func respondTasteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, taste.ErrMatchCompleted):
		respondError(w, http.StatusConflict, models.ErrCodeMatchComplete, "No active session: match is completed", nil)
	case errors.Is(err, taste.ErrRoundCompleted):
		respondError(w, http.StatusConflict, models.ErrCodeRoundComplete, "Round already completed", nil)
	case errors.Is(err, taste.ErrAlreadyChose):
		respondError(w, http.StatusConflict, models.ErrCodeAlreadyChose, "Choice already submitted for this round", nil)
	case errors.Is(err, taste.ErrNotFriends):
		respondError(w, http.StatusForbidden, models.ErrCodeForbidden, "Users must be friends to play", nil)
	case errors.Is(err, taste.ErrNotParticipant):
		respondError(w, http.StatusForbidden, models.ErrCodeForbidden, "User is not a participant of this match", nil)
	case errors.Is(err, taste.ErrSelfMatch):
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Cannot create a match against yourself", nil)
	case errors.Is(err, taste.ErrInvalidAction):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Unrecognized action for this operation", nil)
	case errors.Is(err, taste.ErrInvalidCategory):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Unknown content category", nil)
	case errors.Is(err, taste.ErrPoolExhausted):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Not enough fresh content to fill the match", nil)
	case errors.Is(err, database.ErrMatchNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Match not found", nil)
	case errors.Is(err, database.ErrItemNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Item not found", nil)
	case errors.Is(err, database.ErrFriendshipNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Friendship not found", nil)
	case errors.Is(err, database.ErrFriendshipExists):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Friendship already exists", nil)
	case errors.Is(err, database.ErrRefConflict):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Content already attached to another item", nil)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal error", err)
	}
}
