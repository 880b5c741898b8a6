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

// CreateItemRequest is the POST /items payload.
type CreateItemRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Category string `json:"content_type" validate:"required,oneof=FILMS SERIES MUSIQUE LIVRES"`
	Title    string `json:"title" validate:"required"`
	// Enrich requests immediate enrichment instead of waiting for the
	// background pass.
	Enrich bool `json:"enrich"`
}

// CreateItem adds a title to a user's list, optionally enriching it
// inline.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validateRequest(req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request: "+err.Error(), nil)
		return
	}

	item, err := h.db.CreateItem(r.Context(), req.UserID, models.Category(req.Category), req.Title)
	if err != nil {
		respondTasteError(w, err)
		return
	}

	if req.Enrich && h.enricher.Enrich(r.Context(), item, false) {
		item, err = h.db.GetItem(r.Context(), item.ID)
		if err != nil {
			respondTasteError(w, err)
			return
		}
	}
	respondData(w, http.StatusCreated, item)
}

// ListItems returns a user's list, optionally filtered by category.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "user_id is required", nil)
		return
	}
	category, ok := getCategoryParam(r, "category")
	if !ok {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Unknown content category", nil)
		return
	}

	items, err := h.db.ListItems(r.Context(), userID, category)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, items)
}

// GetItem returns one item with its reference.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.db.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, item)
}

// EnrichItem runs enrichment for one item. force=true bypasses the
// freshness window. The response reports whether the item ended up with
// a usable reference; a still-fresh reference counts as success.
func (h *Handler) EnrichItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.db.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondTasteError(w, err)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	enriched := h.enricher.Enrich(r.Context(), item, force)

	item, err = h.db.GetItem(r.Context(), item.ID)
	if err != nil {
		respondTasteError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"item":     item,
		"enriched": enriched,
	})
}
