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
	"strings"

	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/models"
)

// OpenLibraryAdapter is the secondary book catalog, unauthenticated.
// Its results backfill titles Google Books misses; the books aggregate
// dedupes across the two.
type OpenLibraryAdapter struct {
	fetcher *Fetcher
	cfg     config.OpenLibraryConfig
}

// NewOpenLibrary returns the secondary LIVRES adapter.
func NewOpenLibrary(f *Fetcher, cfg config.OpenLibraryConfig) *OpenLibraryAdapter {
	return &OpenLibraryAdapter{fetcher: f, cfg: cfg}
}

func (a *OpenLibraryAdapter) Service() string           { return string(models.SourceOpenLibrary) }
func (a *OpenLibraryAdapter) Category() models.Category { return models.CategoryLivres }

type olDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int64    `json:"cover_i"`
	Subject          []string `json:"subject"`
}

type olPage struct {
	Docs []olDoc `json:"docs"`
}

// Search queries the Open Library search endpoint.
func (a *OpenLibraryAdapter) Search(ctx context.Context, query string, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/search.json",
		Params:  params,
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryLivres, query, limit)
	}

	var page olPage
	if err := json.Unmarshal(body, &page); err != nil {
		logging.Warn().Err(err).Str("service", a.Service()).Msg("Failed to decode Open Library results")
		return FallbackContent(a.Service(), models.CategoryLivres, query, limit)
	}

	out := make([]models.ContentRecord, 0, limit)
	for _, d := range page.Docs {
		out = append(out, a.normalize(d))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Trending samples recent well-covered fiction; Open Library has no
// chart endpoint either.
func (a *OpenLibraryAdapter) Trending(ctx context.Context, limit int) []models.ContentRecord {
	limit = capLimit(limit, 10)

	params := url.Values{}
	params.Set("q", "subject:fiction")
	params.Set("sort", "new")
	params.Set("limit", strconv.Itoa(limit))

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + "/search.json",
		Params:  params,
	})
	if !ok {
		return FallbackContent(a.Service(), models.CategoryLivres, "", limit)
	}

	var page olPage
	if err := json.Unmarshal(body, &page); err != nil {
		return FallbackContent(a.Service(), models.CategoryLivres, "", limit)
	}

	out := make([]models.ContentRecord, 0, limit)
	for _, d := range page.Docs {
		out = append(out, a.normalize(d))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Details resolves a work key ("/works/OL123W" or bare "OL123W").
func (a *OpenLibraryAdapter) Details(ctx context.Context, externalID string) (models.ContentRecord, bool) {
	key := externalID
	if !strings.HasPrefix(key, "/works/") {
		key = "/works/" + key
	}

	body, ok := a.fetcher.Fetch(ctx, Request{
		Service: a.Service(),
		URL:     a.cfg.BaseURL + key + ".json",
	})
	if !ok {
		return models.ContentRecord{}, false
	}

	var work struct {
		Key         string      `json:"key"`
		Title       string      `json:"title"`
		Description interface{} `json:"description"`
		Covers      []int64     `json:"covers"`
		Subjects    []string    `json:"subjects"`
	}
	if err := json.Unmarshal(body, &work); err != nil || work.Title == "" {
		return models.ContentRecord{}, false
	}

	// Descriptions arrive either as a string or as {"value": "..."}.
	desc := ""
	switch v := work.Description.(type) {
	case string:
		desc = v
	case map[string]interface{}:
		if s, ok := v["value"].(string); ok {
			desc = s
		}
	}

	cover := ""
	if len(work.Covers) > 0 {
		cover = coverURL(work.Covers[0])
	}

	return models.ContentRecord{
		ExternalID:  strings.TrimPrefix(work.Key, "/works/"),
		Source:      models.SourceOpenLibrary,
		Category:    models.CategoryLivres,
		Title:       work.Title,
		Description: desc,
		PosterURL:   cover,
		Thumbnail:   cover,
		Metadata: map[string]interface{}{
			"subjects": work.Subjects,
		},
	}, true
}

func coverURL(coverID int64) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", coverID)
}

func (a *OpenLibraryAdapter) normalize(d olDoc) models.ContentRecord {
	cover := ""
	if d.CoverI > 0 {
		cover = coverURL(d.CoverI)
	}

	desc := ""
	if len(d.AuthorName) > 0 {
		desc = strings.Join(d.AuthorName, ", ")
	}

	rec := models.ContentRecord{
		ExternalID:  strings.TrimPrefix(d.Key, "/works/"),
		Source:      models.SourceOpenLibrary,
		Category:    models.CategoryLivres,
		Title:       d.Title,
		Description: desc,
		PosterURL:   cover,
		Thumbnail:   cover,
		Metadata: map[string]interface{}{
			"author_name":        d.AuthorName,
			"first_publish_year": d.FirstPublishYear,
			"subject":            d.Subject,
		},
	}
	if d.FirstPublishYear > 0 {
		rec.Year = d.FirstPublishYear
	}
	return rec
}
