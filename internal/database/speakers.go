// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/talkboard/talkboard/internal/models"
)

// UpdateSpeakerParams holds the optional fields of a speaker update.
// Nil fields are left unchanged.
type UpdateSpeakerParams struct {
	Name *string
	Bio  *string
}

// CreateSpeaker inserts a speaker, or returns the existing one when a
// speaker with the same name already exists. The second return value
// reports whether a new row was created.
func (db *DB) CreateSpeaker(ctx context.Context, name, bio string) (*models.Speaker, bool, error) {
	existing, err := db.GetSpeakerByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	ts := now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO speakers (name, bio, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, bio, ts, ts)
	if err != nil {
		// Lost a race with a concurrent insert of the same name.
		if isUniqueConstraintError(err) {
			existing, lookupErr := db.GetSpeakerByName(ctx, name)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert speaker: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("speaker insert id: %w", err)
	}

	speaker, err := db.GetSpeaker(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return speaker, true, nil
}

// GetSpeaker retrieves a speaker by id. Returns ErrNotFound if absent.
func (db *DB) GetSpeaker(ctx context.Context, id int64) (*models.Speaker, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, bio, created_at, updated_at FROM speakers WHERE id = ?`, id)
	return scanSpeaker(row)
}

// GetSpeakerByName retrieves a speaker by unique name.
func (db *DB) GetSpeakerByName(ctx context.Context, name string) (*models.Speaker, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, bio, created_at, updated_at FROM speakers WHERE name = ?`, name)
	return scanSpeaker(row)
}

// ListSpeakers returns all speakers ordered by name.
func (db *DB) ListSpeakers(ctx context.Context) ([]models.Speaker, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, bio, created_at, updated_at FROM speakers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	speakers := []models.Speaker{}
	for rows.Next() {
		var s models.Speaker
		if err := rows.Scan(&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

// UpdateSpeaker applies the non-nil fields of params to the speaker with the
// given id. Returns ErrNotFound if the speaker does not exist and
// ErrDuplicateName if the new name belongs to another speaker.
func (db *DB) UpdateSpeaker(ctx context.Context, id int64, params UpdateSpeakerParams) (*models.Speaker, error) {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var current models.Speaker
		row := tx.QueryRowContext(ctx,
			`SELECT id, name, bio FROM speakers WHERE id = ?`, id)
		if err := row.Scan(&current.ID, &current.Name, &current.Bio); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load speaker: %w", err)
		}

		if params.Name != nil {
			current.Name = *params.Name
		}
		if params.Bio != nil {
			current.Bio = *params.Bio
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE speakers SET name = ?, bio = ?, updated_at = ? WHERE id = ?`,
			current.Name, current.Bio, now(), id)
		if isUniqueConstraintError(err) {
			return fmt.Errorf("speaker %w", ErrDuplicateName)
		}
		if err != nil {
			return fmt.Errorf("update speaker: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetSpeaker(ctx, id)
}

// DeleteSpeaker removes a speaker. The schema cascades the delete to the
// speaker's talks and those talks' reviews. Returns ErrNotFound if absent.
func (db *DB) DeleteSpeaker(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM speakers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete speaker: %w", err)
	}
	return requireAffected(res)
}

// scanSpeaker scans a single speaker row, translating sql.ErrNoRows.
func scanSpeaker(row *sql.Row) (*models.Speaker, error) {
	var s models.Speaker
	err := row.Scan(&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan speaker: %w", err)
	}
	return &s, nil
}

// requireAffected translates a zero-row write into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
