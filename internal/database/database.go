// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Package database provides the SQLite-backed store for Talkboard.
//
// The store exposes per-entity CRUD methods (speakers.go, topics.go,
// talks.go, reviews.go) over hand-written SQL. Multi-statement writes run
// inside transactions; absent ids surface as ErrNotFound and unresolvable
// foreign keys as ErrInvalidReference, so callers never need to inspect
// driver errors.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/logging"
)

// DB wraps the SQLite connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the SQLite database, applies pragmas, and runs migrations.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
		}
	}

	// foreign_keys makes the ON DELETE CASCADE clauses effective; WAL and
	// synchronous=NORMAL match the write/read mix of a mostly-read catalog.
	dsn := fmt.Sprintf("file:%s?%s", cfg.Path, url.Values{
		"_pragma": []string{
			"foreign_keys(1)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
			"busy_timeout(5000)",
		},
	}.Encode())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection avoids
	// SQLITE_BUSY under concurrent writes and keeps pragmas on every query.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("database ready")
	return db, nil
}

// Ping verifies the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// inTx runs fn inside a transaction, committing on nil and rolling back on
// error. A failed create or update therefore leaves no partial record.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Warn().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// closeQuietly closes a connection in error paths where the Close error is
// not actionable.
func closeQuietly(conn *sql.DB) {
	if conn != nil {
		_ = conn.Close()
	}
}

// now returns the timestamp written to created_at/updated_at columns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
