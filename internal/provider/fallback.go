// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"fmt"
	"strings"

	"github.com/tastevin-app/tastevin/internal/metrics"
	"github.com/tastevin-app/tastevin/internal/models"
)

// fallbackTitles is the deterministic sample catalog served when a
// provider is unreachable or un-configured. Stable ids keep preferences
// recorded against fallback content consistent across restarts.
var fallbackTitles = map[models.Category][]string{
	models.CategoryFilms: {
		"Le Voyage Immobile", "Minuit sur la Colline", "The Last Projectionist",
		"Saltwater Summer", "Cendres et Lumière", "A Quiet Arrangement",
		"Les Heures Bleues", "Northbound", "The Cartographer's Daughter",
		"Un Dimanche en Hiver",
	},
	models.CategorySeries: {
		"Quartier Nord", "The Glass Harbour", "Derniers Départs",
		"Meridian Lane", "La Salle d'Attente", "Second Wind",
		"Rue des Absents", "The Night Ledger", "Basse Saison", "Fault Lines",
	},
	models.CategoryMusique: {
		"Échos du Matin", "Velvet Static", "Chansons pour Personne",
		"Low Tide Tapes", "Fenêtres Ouvertes", "Analog Hearts",
		"Nuits Blanches", "Slow Orbit", "La Dernière Danse", "Paper Planets",
	},
	models.CategoryLivres: {
		"L'Inventaire des Absences", "The Borrowed Coast", "Une Saison de Verre",
		"Maps Without Rivers", "Le Silence des Archives", "Half-Remembered Light",
		"Les Jardins Suspendus", "The Patience of Stones", "Dernière Marée",
		"A Field Guide to Leaving",
	},
}

// FallbackContent returns up to limit deterministic sample records for a
// category. Query, when non-empty, filters titles by case-insensitive
// substring; an empty result set is valid.
func FallbackContent(service string, category models.Category, query string, limit int) []models.ContentRecord {
	metrics.RecordFallback(service)

	titles := fallbackTitles[category]
	limit = capLimit(limit, len(titles))

	lower := strings.ToLower(query)
	out := make([]models.ContentRecord, 0, limit)
	for i, title := range titles {
		if lower != "" && !strings.Contains(strings.ToLower(title), lower) {
			continue
		}
		out = append(out, models.ContentRecord{
			ExternalID:  fmt.Sprintf("fallback-%s-%d", strings.ToLower(string(category)), i+1),
			Source:      models.SourceFallback,
			Category:    category,
			Title:       title,
			Description: "Sample content served while the catalog is unavailable.",
			Metadata:    map[string]interface{}{"fallback": true},
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}
