// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/models"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w500"

// TMDBAdapter serves the FILMS and SERIES categories from the TMDB
// catalog. One instance handles one media kind ("movie" or "tv"); the
// two instances share the same fetcher, token, and cache namespace.
//
// The access token travels as a bearer header, never as a query
// parameter, so it stays out of cache fingerprints.
type TMDBAdapter struct {
	fetcher  *Fetcher
	cfg      config.TMDBConfig
	kind     string
	category models.Category
}

// NewTMDBMovies returns the FILMS adapter.
func NewTMDBMovies(f *Fetcher, cfg config.TMDBConfig) *TMDBAdapter {
	return &TMDBAdapter{fetcher: f, cfg: cfg, kind: "movie", category: models.CategoryFilms}
}

// NewTMDBSeries returns the SERIES adapter.
func NewTMDBSeries(f *Fetcher, cfg config.TMDBConfig) *TMDBAdapter {
	return &TMDBAdapter{fetcher: f, cfg: cfg, kind: "tv", category: models.CategorySeries}
}

func (a *TMDBAdapter) Service() string           { return string(models.SourceTMDB) }
func (a *TMDBAdapter) Category() models.Category { return a.category }

func (a *TMDBAdapter) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.cfg.AccessToken}
}

type tmdbItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

type tmdbPage struct {
	Results []tmdbItem `json:"results"`
}

// Search queries TMDB's per-kind search endpoint. Falls back to sample
// content when the adapter is un-configured or the upstream call fails.
func (a *TMDBAdapter) Search(ctx context.Context, query string, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)
	if !a.cfg.Enabled() {
		return FallbackContent(a.Service(), a.category, query, limit)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     fmt.Sprintf("%s/search/%s", a.cfg.BaseURL, a.kind),
		Params:  params,
		Headers: a.headers(),
	})
	if !ok {
		return FallbackContent(a.Service(), a.category, query, limit)
	}
	return a.decodePage(body, limit, query)
}

// Trending returns this week's popular titles for the adapter's kind.
func (a *TMDBAdapter) Trending(ctx context.Context, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)
	if !a.cfg.Enabled() {
		return FallbackContent(a.Service(), a.category, "", limit)
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     fmt.Sprintf("%s/trending/%s/week", a.cfg.BaseURL, a.kind),
		Headers: a.headers(),
	})
	if !ok {
		return FallbackContent(a.Service(), a.category, "", limit)
	}
	return a.decodePage(body, limit, "")
}

// Details fetches one title by id.
func (a *TMDBAdapter) Details(ctx context.Context, externalID string) (models.ContentRecord, bool) {
	if !a.cfg.Enabled() {
		return models.ContentRecord{}, false
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     fmt.Sprintf("%s/%s/%s", a.cfg.BaseURL, a.kind, externalID),
		Headers: a.headers(),
	})
	if !ok {
		return models.ContentRecord{}, false
	}

	var item tmdbItem
	if err := json.Unmarshal(body, &item); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode TMDB details")
		return models.ContentRecord{}, false
	}
	return a.normalize(item), true
}

func (a *TMDBAdapter) decodePage(body json.RawMessage, limit int, query string) []models.ContentRecord {
	var page tmdbPage
	if err := json.Unmarshal(body, &page); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode TMDB results")
		return FallbackContent(a.Service(), a.category, query, limit)
	}

	out := make([]models.ContentRecord, 0, limit)
	for _, item := range page.Results {
		out = append(out, a.normalize(item))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (a *TMDBAdapter) normalize(item tmdbItem) models.ContentRecord {
	// Movies carry "title"/"release_date", series "name"/"first_air_date".
	title := item.Title
	if title == "" {
		title = item.Name
	}

	poster := ""
	if item.PosterPath != "" {
		poster = tmdbImageBase + item.PosterPath
	}

	rec := models.ContentRecord{
		ExternalID:  strconv.Itoa(item.ID),
		Source:      models.SourceTMDB,
		Category:    a.category,
		Title:       title,
		Description: item.Overview,
		PosterURL:   poster,
		Thumbnail:   poster,
		Metadata: map[string]interface{}{
			"release_date":   item.ReleaseDate,
			"first_air_date": item.FirstAirDate,
			"vote_average":   item.VoteAverage,
			"popularity":     item.Popularity,
			"genre_ids":      item.GenreIDs,
			"media_type":     a.kind,
		},
	}
	rec.Year = rec.ReleaseYear()
	return rec
}
