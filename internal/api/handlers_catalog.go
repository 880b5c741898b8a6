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

// Search queries the category's catalog. Degraded providers answer with
// deterministic sample content, never an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	category, ok := getCategoryParam(r, "category")
	if !ok || category == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "category must be one of FILMS, SERIES, MUSIQUE, LIVRES", nil)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "q is required", nil)
		return
	}

	adapter, found := h.adapters.ForCategory(category)
	if !found {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "No catalog for this category", nil)
		return
	}

	results := adapter.Search(r.Context(), query, getIntParam(r, "limit", 10))
	respondData(w, http.StatusOK, results)
}

// Trending returns popular content for a category.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	category, ok := getCategoryParam(r, "category")
	if !ok || category == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "category must be one of FILMS, SERIES, MUSIQUE, LIVRES", nil)
		return
	}

	adapter, found := h.adapters.ForCategory(category)
	if !found {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "No catalog for this category", nil)
		return
	}

	results := adapter.Trending(r.Context(), getIntParam(r, "limit", 10))
	respondData(w, http.StatusOK, results)
}

// ContentDetails resolves one catalog entry by category and external id.
func (h *Handler) ContentDetails(w http.ResponseWriter, r *http.Request) {
	category, ok := getCategoryParam(r, "category")
	if !ok || category == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "category must be one of FILMS, SERIES, MUSIQUE, LIVRES", nil)
		return
	}
	externalID := chi.URLParam(r, "externalID")

	adapter, found := h.adapters.ForCategory(category)
	if !found {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "No catalog for this category", nil)
		return
	}

	rec, found := adapter.Details(r.Context(), externalID)
	if !found {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Content not found", nil)
		return
	}
	respondData(w, http.StatusOK, rec)
}
