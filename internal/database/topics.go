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

// CreateTopic inserts a topic, or returns the existing one when a topic with
// the same name already exists. The second return value reports whether a
// new row was created.
func (db *DB) CreateTopic(ctx context.Context, name string) (*models.Topic, bool, error) {
	existing, err := db.GetTopicByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	ts := now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO topics (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, ts, ts)
	if err != nil {
		if isUniqueConstraintError(err) {
			existing, lookupErr := db.GetTopicByName(ctx, name)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert topic: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("topic insert id: %w", err)
	}

	topic, err := db.GetTopic(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return topic, true, nil
}

// GetTopic retrieves a topic by id. Returns ErrNotFound if absent.
func (db *DB) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM topics WHERE id = ?`, id)
	return scanTopic(row)
}

// GetTopicByName retrieves a topic by unique name.
func (db *DB) GetTopicByName(ctx context.Context, name string) (*models.Topic, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM topics WHERE name = ?`, name)
	return scanTopic(row)
}

// ListTopics returns all topics ordered by name.
func (db *DB) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateTopic renames a topic. Returns ErrNotFound if the topic does not
// exist and ErrDuplicateName if the name belongs to another topic.
func (db *DB) UpdateTopic(ctx context.Context, id int64, name string) (*models.Topic, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE topics SET name = ?, updated_at = ? WHERE id = ?`, name, now(), id)
	if isUniqueConstraintError(err) {
		return nil, fmt.Errorf("topic %w", ErrDuplicateName)
	}
	if err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return db.GetTopic(ctx, id)
}

// DeleteTopic removes a topic. Association rows cascade away; the talks
// themselves survive, they just lose the label. Returns ErrNotFound if
// absent.
func (db *DB) DeleteTopic(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return requireAffected(res)
}

func scanTopic(row *sql.Row) (*models.Topic, error) {
	var t models.Topic
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan topic: %w", err)
	}
	return &t, nil
}
