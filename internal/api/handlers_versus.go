// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tastevin-app/tastevin/internal/models"
)

// CreateMatchRequest is the POST /versus payload.
type CreateMatchRequest struct {
	User1  string `json:"user1" validate:"required"`
	User2  string `json:"user2" validate:"required"`
	Rounds int    `json:"rounds" validate:"min=0,max=50"`
}

// CreateMatch starts a versus match between two friends. Rounds of 0
// uses the server default.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	match, err := h.engine.CreateMatch(r.Context(), req.User1, req.User2, req.Rounds)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusCreated, match)
}

// SubmitChoiceRequest is the POST /versus/{matchID}/choice payload.
type SubmitChoiceRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=LIKE DISLIKE"`
}

// SubmitChoice records one player's stance on the current round.
func (h *Handler) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	var req SubmitChoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	result, err := h.engine.SubmitChoice(r.Context(), matchID, req.UserID, models.Action(req.Action))
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

// MatchResults returns a match and all of its rounds.
func (h *Handler) MatchResults(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	match, sessions, err := h.engine.MatchResults(r.Context(), matchID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"match":    match,
		"sessions": sessions,
	})
}

// Matches lists every match involving a user.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	matches, err := h.db.ListMatches(r.Context(), userID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, matches)
}
