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

	"github.com/tastevin-app/tastevin/internal/models"
)

// ErrMatchNotFound is returned when a match id resolves to nothing.
var ErrMatchNotFound = errors.New("match not found")

// CreateMatch persists a match and its pre-generated round sessions in
// one transaction.
func (db *DB) CreateMatch(ctx context.Context, match models.Match, sessions []models.MatchSession) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matches (id, user1, user2, total_rounds, current_round, score1, score2, status, compat_score, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.User1, match.User2, match.TotalRounds, match.CurrentRound,
		match.Score1, match.Score2, string(match.Status), match.CompatScore,
		match.CreatedAt, match.CompletedAt,
	); err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}

	for _, s := range sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_sessions (id, match_id, round_number, external_id, source, content_type, title, metadata, choice1, choice2, is_completed, is_match)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.MatchID, s.RoundNumber, s.ExternalID, string(s.Source),
			string(s.Category), s.Title, marshalMeta(s.Metadata),
			string(s.Choice1), string(s.Choice2), s.IsCompleted, s.IsMatch,
		); err != nil {
			return fmt.Errorf("inserting session %d: %w", s.RoundNumber, err)
		}
	}

	return tx.Commit()
}

// GetMatch returns a match and its sessions ordered by round number.
func (db *DB) GetMatch(ctx context.Context, matchID string) (models.Match, []models.MatchSession, error) {
	var m models.Match
	var status string
	var compat sql.NullFloat64
	var completed sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user1, user2, total_rounds, current_round, score1, score2, status, compat_score, created_at, completed_at
		 FROM matches WHERE id = ?`,
		matchID,
	).Scan(&m.ID, &m.User1, &m.User2, &m.TotalRounds, &m.CurrentRound,
		&m.Score1, &m.Score2, &status, &compat, &m.CreatedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, nil, ErrMatchNotFound
	}
	if err != nil {
		return models.Match{}, nil, fmt.Errorf("querying match: %w", err)
	}
	m.Status = models.MatchStatus(status)
	if compat.Valid {
		m.CompatScore = &compat.Float64
	}
	if completed.Valid {
		t := completed.Time
		m.CompletedAt = &t
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, match_id, round_number, external_id, source, content_type, title, metadata, choice1, choice2, is_completed, is_match
		 FROM match_sessions WHERE match_id = ? ORDER BY round_number`,
		matchID,
	)
	if err != nil {
		return models.Match{}, nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []models.MatchSession
	for rows.Next() {
		var s models.MatchSession
		var source, category, meta, choice1, choice2 string
		if err := rows.Scan(&s.ID, &s.MatchID, &s.RoundNumber, &s.ExternalID, &source,
			&category, &s.Title, &meta, &choice1, &choice2, &s.IsCompleted, &s.IsMatch); err != nil {
			return models.Match{}, nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Source = models.Source(source)
		s.Category = models.Category(category)
		s.Metadata = unmarshalMeta(meta)
		s.Choice1 = models.Action(choice1)
		s.Choice2 = models.Action(choice2)
		sessions = append(sessions, s)
	}
	return m, sessions, rows.Err()
}

// UpdateSession persists a round's choices and completion flags.
func (db *DB) UpdateSession(ctx context.Context, s models.MatchSession) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE match_sessions SET choice1 = ?, choice2 = ?, is_completed = ?, is_match = ?
		 WHERE id = ?`,
		string(s.Choice1), string(s.Choice2), s.IsCompleted, s.IsMatch, s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// UpdateMatch persists match progress: scores, round pointer, status,
// and the completion-time compatibility score.
func (db *DB) UpdateMatch(ctx context.Context, m models.Match) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE matches SET current_round = ?, score1 = ?, score2 = ?, status = ?, compat_score = ?, completed_at = ?
		 WHERE id = ?`,
		m.CurrentRound, m.Score1, m.Score2, string(m.Status), m.CompatScore, m.CompletedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// ListMatches returns every match involving the user, newest first.
func (db *DB) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user1, user2, total_rounds, current_round, score1, score2, status, compat_score, created_at, completed_at
		 FROM matches WHERE user1 = ? OR user2 = ? ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Match
	for rows.Next() {
		var m models.Match
		var status string
		var compat sql.NullFloat64
		var completed sql.NullTime
		if err := rows.Scan(&m.ID, &m.User1, &m.User2, &m.TotalRounds, &m.CurrentRound,
			&m.Score1, &m.Score2, &status, &compat, &m.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Status = models.MatchStatus(status)
		if compat.Valid {
			m.CompatScore = &compat.Float64
		}
		if completed.Valid {
			t := completed.Time
			m.CompletedAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
