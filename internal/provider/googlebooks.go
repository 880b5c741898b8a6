// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/models"
)

// GoogleBooksAdapter is the primary book catalog. The optional API key
// rides along as a query parameter; anonymous requests work but are
// rate-limited harder.
type GoogleBooksAdapter struct {
	fetcher *Fetcher
	cfg     config.GoogleBooksConfig
}

// NewGoogleBooks returns the primary LIVRES adapter.
func NewGoogleBooks(f *Fetcher, cfg config.GoogleBooksConfig) *GoogleBooksAdapter {
	return &GoogleBooksAdapter{fetcher: f, cfg: cfg}
}

func (a *GoogleBooksAdapter) Service() string           { return string(models.SourceGoogleBooks) }
func (a *GoogleBooksAdapter) Category() models.Category { return models.CategoryLivres }

type gbVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	AverageRating float64  `json:"averageRating"`
	ImageLinks    struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type gbVolume struct {
	ID         string       `json:"id"`
	VolumeInfo gbVolumeInfo `json:"volumeInfo"`
}

type gbPage struct {
	Items []gbVolume `json:"items"`
}

// Search queries the volumes endpoint.
func (a *GoogleBooksAdapter) Search(ctx context.Context, query string, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	if a.cfg.APIKey != "" {
		params.Set("key", a.cfg.APIKey)
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/volumes",
		Params:  params,
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryLivres, query, limit)
	}

	var page gbPage
	if err := json.Unmarshal(body, &page); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode Google Books results")
		return FallbackContent(a.Service(), models.CategoryLivres, query, limit)
	}

	out := make([]models.ContentRecord, 0, limit)
	for _, v := range page.Items {
		out = append(out, a.normalize(v))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Trending approximates popularity with a subject search ordered by
// newest; Google Books has no chart endpoint.
func (a *GoogleBooksAdapter) Trending(ctx context.Context, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	params := url.Values{}
	params.Set("q", "subject:fiction")
	params.Set("orderBy", "newest")
	params.Set("maxResults", strconv.Itoa(limit))
	if a.cfg.APIKey != "" {
		params.Set("key", a.cfg.APIKey)
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/volumes",
		Params:  params,
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryLivres, "", limit)
	}

	var page gbPage
	if err := json.Unmarshal(body, &page); err != nil {
		return FallbackContent(a.Service(), models.CategoryLivres, "", limit)
	}

	out := make([]models.ContentRecord, 0, limit)
	for _, v := range page.Items {
		out = append(out, a.normalize(v))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Details fetches one volume by id.
func (a *GoogleBooksAdapter) Details(ctx context.Context, externalID string) (models.ContentRecord, bool) {
	params := url.Values{}
	if a.cfg.APIKey != "" {
		params.Set("key", a.cfg.APIKey)
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/volumes/" + externalID,
		Params:  params,
	})
	if !ok {
		return models.ContentRecord{}, false
	}

	var v gbVolume
	if err := json.Unmarshal(body, &v); err != nil || v.ID == "" {
		return models.ContentRecord{}, false
	}
	return a.normalize(v), true
}

func (a *GoogleBooksAdapter) normalize(v gbVolume) models.ContentRecord {
	info := v.VolumeInfo
	thumb := strings.Replace(info.ImageLinks.Thumbnail, "http://", "https://", 1)

	rec := models.ContentRecord{
		ExternalID:  v.ID,
		Source:      models.SourceGoogleBooks,
		Category:    models.CategoryLivres,
		Title:       info.Title,
		Description: info.Description,
		PosterURL:   thumb,
		Thumbnail:   thumb,
		Metadata: map[string]interface{}{
			"authors":        info.Authors,
			"published_date": info.PublishedDate,
			"page_count":     info.PageCount,
			"categories":     info.Categories,
			"average_rating": info.AverageRating,
		},
	}
	rec.Year = rec.ReleaseYear()
	return rec
}
