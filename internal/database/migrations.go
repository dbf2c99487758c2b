// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/talkboard/talkboard/internal/logging"
)

// Migration is a versioned schema change. Migrations are append-only: never
// modify or remove one once databases exist with it applied.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
);`

// migrations returns all versioned migrations in order. Version 1 carries
// the complete initial schema; later versions alter it incrementally.
func migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "initial_schema",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS speakers (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					bio TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS topics (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS talks (
					id INTEGER PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					duration_seconds INTEGER NOT NULL,
					views INTEGER NOT NULL DEFAULT 0,
					published_at TEXT NOT NULL DEFAULT '',
					speaker_id INTEGER NOT NULL REFERENCES speakers(id) ON DELETE CASCADE,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_talks_speaker ON talks(speaker_id)`,
				`CREATE TABLE IF NOT EXISTS talk_topics (
					talk_id INTEGER NOT NULL REFERENCES talks(id) ON DELETE CASCADE,
					topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
					PRIMARY KEY (talk_id, topic_id)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_talk_topics_topic ON talk_topics(topic_id)`,
				`CREATE TABLE IF NOT EXISTS reviews (
					id INTEGER PRIMARY KEY,
					talk_id INTEGER NOT NULL REFERENCES talks(id) ON DELETE CASCADE,
					content TEXT NOT NULL,
					rating INTEGER,
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_reviews_talk ON reviews(talk_id)`,
			},
		},
	}
}

// Migrate applies all pending migrations. Each migration runs in its own
// transaction together with its schema_migrations bookkeeping row, so a
// failed migration leaves the version table consistent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations() {
		if m.Version <= current {
			continue
		}
		err := db.inTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Name, now())
			return err
		})
		if err != nil {
			return err
		}
		logging.Info().Int("version", m.Version).Str("name", m.Name).Msg("applied migration")
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
