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

	"github.com/tastevin-app/tastevin/internal/models"
)

// UpsertPreference records a user's stance on content and keeps the
// profile counters consistent in the same transaction:
//
//   - first sighting: insert, total_matches +1, successful_matches +1
//     when the action is ADDED
//   - action changed: update in place, successful_matches +1 only on a
//     transition into ADDED, total_matches untouched
//   - action repeated: only updated_at moves
//
// Both counters are monotonic: re-marking never inflates total_matches
// and leaving ADDED never takes a successful_matches point back.
func (db *DB) UpsertPreference(ctx context.Context, pref models.Preference) (models.Preference, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Preference{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	var prevAction string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT action, created_at FROM preferences
		 WHERE user_id = ? AND external_id = ? AND source = ?`,
		pref.UserID, pref.ExternalID, string(pref.Source),
	).Scan(&prevAction, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preferences
			 (user_id, external_id, source, content_type, action, title, metadata, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pref.UserID, pref.ExternalID, string(pref.Source), string(pref.Category),
			string(pref.Action), pref.Title, marshalMeta(pref.Metadata), now, now,
		); err != nil {
			return models.Preference{}, fmt.Errorf("inserting preference: %w", err)
		}

		successDelta := 0
		if pref.Action == models.ActionAdded {
			successDelta = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, total_matches, successful_matches, updated_at)
			 VALUES (?, 1, ?, ?)
			 ON CONFLICT (user_id) DO UPDATE SET
			   total_matches = profiles.total_matches + 1,
			   successful_matches = profiles.successful_matches + excluded.successful_matches,
			   updated_at = excluded.updated_at`,
			pref.UserID, successDelta, now,
		); err != nil {
			return models.Preference{}, fmt.Errorf("updating profile: %w", err)
		}
		pref.CreatedAt = now

	case err != nil:
		return models.Preference{}, fmt.Errorf("querying preference: %w", err)

	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE preferences SET action = ?, title = ?, metadata = ?, updated_at = ?
			 WHERE user_id = ? AND external_id = ? AND source = ?`,
			string(pref.Action), pref.Title, marshalMeta(pref.Metadata), now,
			pref.UserID, pref.ExternalID, string(pref.Source),
		); err != nil {
			return models.Preference{}, fmt.Errorf("updating preference: %w", err)
		}

		if pref.Action == models.ActionAdded && prevAction != string(models.ActionAdded) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE profiles SET successful_matches = successful_matches + 1, updated_at = ?
				 WHERE user_id = ?`,
				now, pref.UserID,
			); err != nil {
				return models.Preference{}, fmt.Errorf("adjusting profile: %w", err)
			}
		}
		pref.CreatedAt = createdAt
	}

	if err := tx.Commit(); err != nil {
		return models.Preference{}, fmt.Errorf("committing preference: %w", err)
	}
	pref.UpdatedAt = now
	return pref, nil
}

// ListPreferences returns every preference a user has recorded, newest
// first.
func (db *DB) ListPreferences(ctx context.Context, userID string) ([]models.Preference, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, external_id, source, content_type, action, title, metadata, created_at, updated_at
		 FROM preferences WHERE user_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []models.Preference
	for rows.Next() {
		var p models.Preference
		var source, category, action, meta string
		if err := rows.Scan(&p.UserID, &p.ExternalID, &source, &category, &action,
			&p.Title, &meta, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		p.Source = models.Source(source)
		p.Category = models.Category(category)
		p.Action = models.Action(action)
		p.Metadata = unmarshalMeta(meta)
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// GetProfile returns a user's aggregate counters. A user with no history
// gets a zeroed profile, not an error.
func (db *DB) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	profile := models.Profile{UserID: userID}
	err := db.conn.QueryRowContext(ctx,
		`SELECT total_matches, successful_matches, updated_at FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&profile.TotalMatches, &profile.SuccessfulMatches, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return profile, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return profile, nil
}
