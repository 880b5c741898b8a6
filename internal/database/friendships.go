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

// ErrFriendshipExists is returned when a request targets a pair that
// already has a friendship row.
var ErrFriendshipExists = errors.New("friendship already exists")

// ErrFriendshipNotFound is returned when responding to a request that
// does not exist.
var ErrFriendshipNotFound = errors.New("friendship not found")

// orderPair normalizes a user pair so each pair stores exactly one row.
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// RequestFriendship creates a PENDING friendship from requester to
// addressee.
func (db *DB) RequestFriendship(ctx context.Context, requester, addressee string) (models.Friendship, error) {
	low, high := orderPair(requester, addressee)
	now := time.Now().UTC()

	var status string
	err := db.conn.QueryRowContext(ctx,
		`SELECT status FROM friendships WHERE user_low = ? AND user_high = ?`,
		low, high,
	).Scan(&status)
	if err == nil {
		return models.Friendship{}, ErrFriendshipExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, fmt.Errorf("querying friendship: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO friendships (user_low, user_high, requester, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		low, high, requester, string(models.FriendshipPending), now, now,
	); err != nil {
		return models.Friendship{}, fmt.Errorf("inserting friendship: %w", err)
	}

	return models.Friendship{
		Requester: requester,
		Addressee: addressee,
		Status:    models.FriendshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RespondFriendship moves a PENDING friendship to ACCEPTED or DECLINED.
// Only the addressee of the original request may respond.
func (db *DB) RespondFriendship(ctx context.Context, responder, requester string, accept bool) (models.Friendship, error) {
	low, high := orderPair(responder, requester)
	now := time.Now().UTC()

	var storedRequester, status string
	var createdAt time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT requester, status, created_at FROM friendships WHERE user_low = ? AND user_high = ?`,
		low, high,
	).Scan(&storedRequester, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	if err != nil {
		return models.Friendship{}, fmt.Errorf("querying friendship: %w", err)
	}
	if storedRequester == responder {
		return models.Friendship{}, errors.New("requester cannot respond to own request")
	}
	if status != string(models.FriendshipPending) {
		return models.Friendship{}, fmt.Errorf("friendship is %s, not PENDING", status)
	}

	newStatus := models.FriendshipDeclined
	if accept {
		newStatus = models.FriendshipAccepted
	}
	if _, err := db.conn.ExecContext(ctx,
		`UPDATE friendships SET status = ?, updated_at = ? WHERE user_low = ? AND user_high = ?`,
		string(newStatus), now, low, high,
	); err != nil {
		return models.Friendship{}, fmt.Errorf("updating friendship: %w", err)
	}

	return models.Friendship{
		Requester: storedRequester,
		Addressee: responder,
		Status:    newStatus,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

// AreFriends reports whether two users have an ACCEPTED friendship.
func (db *DB) AreFriends(ctx context.Context, a, b string) (bool, error) {
	low, high := orderPair(a, b)
	var status string
	err := db.conn.QueryRowContext(ctx,
		`SELECT status FROM friendships WHERE user_low = ? AND user_high = ?`,
		low, high,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying friendship: %w", err)
	}
	return status == string(models.FriendshipAccepted), nil
}

// ListFriendships returns every friendship involving the user.
func (db *DB) ListFriendships(ctx context.Context, userID string) ([]models.Friendship, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_low, user_high, requester, status, created_at, updated_at
		 FROM friendships WHERE user_low = ? OR user_high = ?
		 ORDER BY updated_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friendships: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Friendship
	for rows.Next() {
		var low, high, requester, status string
		var created, updated time.Time
		if err := rows.Scan(&low, &high, &requester, &status, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning friendship: %w", err)
		}
		addressee := low
		if requester == low {
			addressee = high
		}
		out = append(out, models.Friendship{
			Requester: requester,
			Addressee: addressee,
			Status:    models.FriendshipStatus(status),
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}
	return out, rows.Err()
}
