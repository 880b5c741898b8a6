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

// MarkSeenRequest is the POST /seen payload.
type MarkSeenRequest struct {
	UserID     string                 `json:"user_id" validate:"required"`
	ExternalID string                 `json:"external_id" validate:"required"`
	Source     string                 `json:"source" validate:"required"`
	Category   string                 `json:"content_type" validate:"required"`
	Action     string                 `json:"action" validate:"required,oneof=LIKE DISLIKE ADDED"`
	Title      string                 `json:"title"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// MarkSeen records a user's stance on provider content. Safe to repeat:
// re-marking updates in place without inflating profile counters.
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var req MarkSeenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	pref, err := h.engine.MarkContentAsSeen(r.Context(), req.UserID, models.ContentRecord{
		ExternalID: req.ExternalID,
		Source:     models.Source(req.Source),
		Category:   models.Category(req.Category),
		Title:      req.Title,
		Metadata:   req.Metadata,
	}, models.Action(req.Action))
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, pref)
}

// Preferences returns a user's full preference history.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	prefs, err := h.engine.Preferences(r.Context(), userID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, prefs)
}

// Profile returns a user's aggregate taste counters.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	profile, err := h.engine.Profile(r.Context(), userID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, profile)
}

// Compatibility scores two users' taste alignment.
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	userA := r.URL.Query().Get("user1")
	userB := r.URL.Query().Get("user2")
	if userA == "" || userB == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "user1 and user2 are required", nil)
		return
	}

	result, err := h.engine.Compatibility(r.Context(), userA, userB)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

// FriendRequestPayload is the POST /friends/request payload.
type FriendRequestPayload struct {
	Requester string `json:"requester" validate:"required"`
	Addressee string `json:"addressee" validate:"required,nefield=Requester"`
}

// RequestFriend creates a PENDING friendship.
func (h *Handler) RequestFriend(w http.ResponseWriter, r *http.Request) {
	var req FriendRequestPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	friendship, err := h.db.RequestFriendship(r.Context(), req.Requester, req.Addressee)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusCreated, friendship)
}

// FriendResponsePayload is the POST /friends/respond payload.
type FriendResponsePayload struct {
	Responder string `json:"responder" validate:"required"`
	Requester string `json:"requester" validate:"required"`
	Accept    bool   `json:"accept"`
}

// RespondFriend accepts or declines a pending friendship.
func (h *Handler) RespondFriend(w http.ResponseWriter, r *http.Request) {
	var req FriendResponsePayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	friendship, err := h.db.RespondFriendship(r.Context(), req.Responder, req.Requester, req.Accept)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, friendship)
}

// Friends lists every friendship involving a user.
func (h *Handler) Friends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	friendships, err := h.db.ListFriendships(r.Context(), userID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, friendships)
}
