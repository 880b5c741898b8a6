// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tastevin-app/tastevin/internal/models"
)

// ErrItemNotFound is returned when an item id resolves to nothing.
var ErrItemNotFound = errors.New("item not found")

// ErrRefConflict is returned when enrichment would attach an
// (external_id, source) pair already bound to another item.
var ErrRefConflict = errors.New("external reference already attached to another item")

// CreateItem adds a title to a user's list.
func (db *DB) CreateItem(ctx context.Context, userID string, category models.Category, title string) (models.Item, error) {
	item := models.Item{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO items (id, user_id, content_type, title, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.UserID, string(item.Category), item.Title, item.CreatedAt,
	); err != nil {
		return models.Item{}, fmt.Errorf("inserting item: %w", err)
	}
	return item, nil
}

// GetItem returns one item with its reference, if attached.
func (db *DB) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	var item models.Item
	var category string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, content_type, title, created_at FROM items WHERE id = ?`,
		itemID,
	).Scan(&item.ID, &item.UserID, &category, &item.Title, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("querying item: %w", err)
	}
	item.Category = models.Category(category)

	ref, err := db.GetRef(ctx, itemID)
	if err != nil {
		return models.Item{}, err
	}
	item.Ref = ref
	return item, nil
}

// ListItems returns a user's list, optionally filtered by category,
// each item joined with its reference when one is attached.
func (db *DB) ListItems(ctx context.Context, userID string, category models.Category) ([]models.Item, error) {
	query := `SELECT i.id, i.user_id, i.content_type, i.title, i.created_at,
		r.external_id, r.source, r.title, r.poster_url, r.release_year, r.metadata, r.attached_at
		FROM items i LEFT JOIN external_refs r ON r.item_id = i.id
		WHERE i.user_id = ?`
	args := []interface{}{userID}
	if category != "" {
		query += ` AND i.content_type = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var cat string
		var refExternalID, refSource, refTitle, refPoster, refMeta sql.NullString
		var refYear sql.NullInt64
		var refAttached sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserID, &cat, &item.Title, &item.CreatedAt,
			&refExternalID, &refSource, &refTitle, &refPoster, &refYear, &refMeta, &refAttached); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Category = models.Category(cat)
		if refExternalID.Valid {
			item.Ref = &models.ExternalRef{
				ItemID:      item.ID,
				ExternalID:  refExternalID.String,
				Source:      models.Source(refSource.String),
				Title:       refTitle.String,
				PosterURL:   refPoster.String,
				ReleaseYear: int(refYear.Int64),
				Metadata:    unmarshalMeta(refMeta.String),
				AttachedAt:  refAttached.Time,
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetRef returns the reference attached to an item, or nil.
func (db *DB) GetRef(ctx context.Context, itemID string) (*models.ExternalRef, error) {
	ref := models.ExternalRef{ItemID: itemID}
	var source, meta string
	err := db.conn.QueryRowContext(ctx,
		`SELECT external_id, source, title, poster_url, release_year, metadata, attached_at
		 FROM external_refs WHERE item_id = ?`,
		itemID,
	).Scan(&ref.ExternalID, &source, &ref.Title, &ref.PosterURL, &ref.ReleaseYear, &meta, &ref.AttachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reference: %w", err)
	}
	ref.Source = models.Source(source)
	ref.Metadata = unmarshalMeta(meta)
	return &ref, nil
}

// UpsertRef attaches or refreshes an item's provider reference. The
// (external_id, source) pair is globally unique: attaching content that
// already belongs to a different item fails with ErrRefConflict.
func (db *DB) UpsertRef(ctx context.Context, ref models.ExternalRef) error {
	var holder string
	err := db.conn.QueryRowContext(ctx,
		`SELECT item_id FROM external_refs WHERE external_id = ? AND source = ?`,
		ref.ExternalID, string(ref.Source),
	).Scan(&holder)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking reference ownership: %w", err)
	}
	if err == nil && holder != ref.ItemID {
		return ErrRefConflict
	}

	if ref.AttachedAt.IsZero() {
		ref.AttachedAt = time.Now().UTC()
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO external_refs (item_id, external_id, source, title, poster_url, release_year, metadata, attached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET
		   external_id = excluded.external_id,
		   source = excluded.source,
		   title = excluded.title,
		   poster_url = excluded.poster_url,
		   release_year = excluded.release_year,
		   metadata = excluded.metadata,
		   attached_at = excluded.attached_at`,
		ref.ItemID, ref.ExternalID, string(ref.Source), ref.Title, ref.PosterURL,
		ref.ReleaseYear, marshalMeta(ref.Metadata), ref.AttachedAt,
	); err != nil {
		return fmt.Errorf("upserting reference: %w", err)
	}
	return nil
}

// ListStaleItems returns items with no attached reference, or whose
// reference was attached before the cutoff. Ordered oldest first so
// repeated passes make progress across the whole table.
func (db *DB) ListStaleItems(ctx context.Context, cutoff time.Time, limit int) ([]models.Item, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT i.id, i.user_id, i.content_type, i.title, i.created_at,
		 r.external_id, r.source, r.title, r.poster_url, r.release_year, r.metadata, r.attached_at
		 FROM items i LEFT JOIN external_refs r ON r.item_id = i.id
		 WHERE r.item_id IS NULL OR r.attached_at < ?
		 ORDER BY COALESCE(r.attached_at, i.created_at) ASC
		 LIMIT ?`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stale items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var cat string
		var refExternalID, refSource, refTitle, refPoster, refMeta sql.NullString
		var refYear sql.NullInt64
		var refAttached sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserID, &cat, &item.Title, &item.CreatedAt,
			&refExternalID, &refSource, &refTitle, &refPoster, &refYear, &refMeta, &refAttached); err != nil {
			return nil, fmt.Errorf("scanning stale item: %w", err)
		}
		item.Category = models.Category(cat)
		if refExternalID.Valid {
			item.Ref = &models.ExternalRef{
				ItemID:      item.ID,
				ExternalID:  refExternalID.String,
				Source:      models.Source(refSource.String),
				Title:       refTitle.String,
				PosterURL:   refPoster.String,
				ReleaseYear: int(refYear.Int64),
				Metadata:    unmarshalMeta(refMeta.String),
				AttachedAt:  refAttached.Time,
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListExternalKeys returns the identities of every piece of provider
// content on a user's list, used to exclude known content from versus
// pools.
func (db *DB) ListExternalKeys(ctx context.Context, userID string) ([]models.ExternalKey, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.external_id, r.source FROM external_refs r
		 JOIN items i ON i.id = r.item_id WHERE i.user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing external keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []models.ExternalKey
	for rows.Next() {
		var k models.ExternalKey
		var source string
		if err := rows.Scan(&k.ExternalID, &source); err != nil {
			return nil, fmt.Errorf("scanning external key: %w", err)
		}
		k.Source = models.Source(source)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
