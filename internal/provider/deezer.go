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

// DeezerAdapter serves the MUSIQUE category. Deezer's public search and
// chart endpoints need no credentials, so the adapter is always enabled.
type DeezerAdapter struct {
	fetcher *Fetcher
	cfg     config.DeezerConfig
}

// NewDeezer returns the MUSIQUE adapter.
func NewDeezer(f *Fetcher, cfg config.DeezerConfig) *DeezerAdapter {
	return &DeezerAdapter{fetcher: f, cfg: cfg}
}

func (a *DeezerAdapter) Service() string           { return string(models.SourceDeezer) }
func (a *DeezerAdapter) Category() models.Category { return models.CategoryMusique }

type deezerArtist struct {
	Name string `json:"name"`
}

type deezerAlbum struct {
	Title string `json:"title"`
	Cover string `json:"cover_medium"`
}

type deezerTrack struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Duration    int          `json:"duration"`
	Rank        int64        `json:"rank"`
	ReleaseDate string       `json:"release_date"`
	Artist      deezerArtist `json:"artist"`
	Album       deezerAlbum  `json:"album"`
}

type deezerList struct {
	Data []deezerTrack `json:"data"`
}

type deezerChart struct {
	Tracks deezerList `json:"tracks"`
}

// Search queries Deezer track search.
func (a *DeezerAdapter) Search(ctx context.Context, query string, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/search",
		Params:  params,
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryMusique, query, limit)
	}

	var list deezerList
	if err := json.Unmarshal(body, &list); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode Deezer results")
		return FallbackContent(a.Service(), models.CategoryMusique, query, limit)
	}
	return a.normalizeAll(list.Data, limit)
}

// Trending returns the current Deezer chart tracks.
func (a *DeezerAdapter) Trending(ctx context.Context, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/chart",
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryMusique, "", limit)
	}

	var chart deezerChart
	if err := json.Unmarshal(body, &chart); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode Deezer chart")
		return FallbackContent(a.Service(), models.CategoryMusique, "", limit)
	}
	return a.normalizeAll(chart.Tracks.Data, limit)
}

// Details fetches one track by id.
func (a *DeezerAdapter) Details(ctx context.Context, externalID string) (models.ContentRecord, bool) {
	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     fmt.Sprintf("%s/track/%s", a.cfg.BaseURL, externalID),
	})
	if !ok {
		return models.ContentRecord{}, false
	}

	var track deezerTrack
	if err := json.Unmarshal(body, &track); err != nil || track.ID == 0 {
		return models.ContentRecord{}, false
	}
	return a.normalize(track), true
}

func (a *DeezerAdapter) normalizeAll(tracks []deezerTrack, limit int) []models.ContentRecord {
	out := make([]models.ContentRecord, 0, limit)
	for _, t := range tracks {
		out = append(out, a.normalize(t))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (a *DeezerAdapter) normalize(t deezerTrack) models.ContentRecord {
	desc := ""
	if t.Artist.Name != "" {
		desc = t.Artist.Name
		if t.Album.Title != "" {
			desc += " - " + t.Album.Title
		}
	}

	rec := models.ContentRecord{
		ExternalID:  strconv.FormatInt(t.ID, 10),
		Source:      models.SourceDeezer,
		Category:    models.CategoryMusique,
		Title:       t.Title,
		Description: desc,
		PosterURL:   t.Album.Cover,
		Thumbnail:   t.Album.Cover,
		Metadata: map[string]interface{}{
			"artist":       t.Artist.Name,
			"album":        t.Album.Title,
			"duration":     t.Duration,
			"rank":         t.Rank,
			"release_date": t.ReleaseDate,
		},
	}
	rec.Year = rec.ReleaseYear()
	return rec
}
