// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/logging"
)

// DB wraps the DuckDB connection holding all relational state:
// preferences, profiles, friendships, list items, external references,
// and versus matches.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at cfg.Path and applies the
// schema. Use ":memory:" for an ephemeral database in tests.
func New(cfg config.DatabaseConfig) (*DB, error) {
	dsn := cfg.Path
	if cfg.Threads > 0 && dsn != ":memory:" {
		dsn = fmt.Sprintf("%s?threads=%d", cfg.Path, cfg.Threads)
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("Database ready")
	return db, nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id      VARCHAR NOT NULL,
			external_id  VARCHAR NOT NULL,
			source       VARCHAR NOT NULL,
			content_type VARCHAR NOT NULL,
			action       VARCHAR NOT NULL,
			title        VARCHAR NOT NULL DEFAULT '',
			metadata     VARCHAR NOT NULL DEFAULT '{}',
			created_at   TIMESTAMP NOT NULL,
			updated_at   TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, external_id, source)
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id            VARCHAR PRIMARY KEY,
			total_matches      INTEGER NOT NULL DEFAULT 0,
			successful_matches INTEGER NOT NULL DEFAULT 0,
			updated_at         TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			user_low   VARCHAR NOT NULL,
			user_high  VARCHAR NOT NULL,
			requester  VARCHAR NOT NULL,
			status     VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_low, user_high)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id           VARCHAR PRIMARY KEY,
			user_id      VARCHAR NOT NULL,
			content_type VARCHAR NOT NULL,
			title        VARCHAR NOT NULL,
			created_at   TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS external_refs (
			item_id      VARCHAR PRIMARY KEY,
			external_id  VARCHAR NOT NULL,
			source       VARCHAR NOT NULL,
			title        VARCHAR NOT NULL DEFAULT '',
			poster_url   VARCHAR NOT NULL DEFAULT '',
			release_year INTEGER NOT NULL DEFAULT 0,
			metadata     VARCHAR NOT NULL DEFAULT '{}',
			attached_at  TIMESTAMP NOT NULL,
			UNIQUE (external_id, source)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id            VARCHAR PRIMARY KEY,
			user1         VARCHAR NOT NULL,
			user2         VARCHAR NOT NULL,
			total_rounds  INTEGER NOT NULL,
			current_round INTEGER NOT NULL,
			score1        INTEGER NOT NULL DEFAULT 0,
			score2        INTEGER NOT NULL DEFAULT 0,
			status        VARCHAR NOT NULL,
			compat_score  DOUBLE,
			created_at    TIMESTAMP NOT NULL,
			completed_at  TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS match_sessions (
			id           VARCHAR PRIMARY KEY,
			match_id     VARCHAR NOT NULL,
			round_number INTEGER NOT NULL,
			external_id  VARCHAR NOT NULL,
			source       VARCHAR NOT NULL,
			content_type VARCHAR NOT NULL,
			title        VARCHAR NOT NULL DEFAULT '',
			metadata     VARCHAR NOT NULL DEFAULT '{}',
			choice1      VARCHAR NOT NULL DEFAULT '',
			choice2      VARCHAR NOT NULL DEFAULT '',
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			is_match     BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (match_id, round_number)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
