// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tastevin-app/tastevin/internal/cache"
	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/database"
	"github.com/tastevin-app/tastevin/internal/enrich"
	"github.com/tastevin-app/tastevin/internal/provider"
	"github.com/tastevin-app/tastevin/internal/taste"
)

// Handler carries the dependencies behind every HTTP endpoint.
type Handler struct {
	cfg       *config.Config
	db        *database.DB
	store     *cache.Store
	collector *provider.Collector
	adapters  provider.Registry
	engine    *taste.Engine
	enricher  *enrich.Enricher
	validate  *validator.Validate
	startTime time.Time
}

// NewHandler wires a handler over the application's services.
func NewHandler(cfg *config.Config, db *database.DB, store *cache.Store, collector *provider.Collector, adapters provider.Registry, engine *taste.Engine, enricher *enrich.Enricher) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		store:     store,
		collector: collector,
		adapters:  adapters,
		engine:    engine,
		enricher:  enricher,
		validate:  validator.New(),
		startTime: time.Now(),
	}
}

// validateRequest runs struct-tag validation on a decoded request body.
func (h *Handler) validateRequest(req interface{}) error {
	return h.validate.Struct(req)
}
