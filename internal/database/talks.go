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

// CreateTalkParams holds the fields of a new talk.
type CreateTalkParams struct {
	Title           string
	Description     string
	DurationSeconds int64
	Views           int64
	PublishedAt     string // YYYY-MM-DD, may be empty
	SpeakerID       int64
	TopicIDs        []int64
}

// UpdateTalkParams holds the optional fields of a talk update. Nil fields
// are left unchanged; a non-nil TopicIDs replaces the whole topic set.
type UpdateTalkParams struct {
	Title           *string
	Description     *string
	DurationSeconds *int64
	Views           *int64
	PublishedAt     *string
	SpeakerID       *int64
	TopicIDs        *[]int64
}

// TalkFilter narrows ListTalks. Zero-valued fields are ignored.
type TalkFilter struct {
	SpeakerID int64
	TopicID   int64
}

// CreateTalk inserts a talk and its topic associations in one transaction.
// Returns ErrInvalidReference when the speaker or any topic id does not
// resolve; in that case nothing is written.
func (db *DB) CreateTalk(ctx context.Context, params CreateTalkParams) (*models.Talk, error) {
	var id int64
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM speakers WHERE id = ?`,
			params.SpeakerID, "speaker", params.SpeakerID); err != nil {
			return err
		}

		ts := now()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO talks (title, description, duration_seconds, views,
				published_at, speaker_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			params.Title, params.Description, params.DurationSeconds, params.Views,
			params.PublishedAt, params.SpeakerID, ts, ts)
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("%w: speaker %d", ErrInvalidReference, params.SpeakerID)
			}
			return fmt.Errorf("insert talk: %w", err)
		}

		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("talk insert id: %w", err)
		}

		return insertTalkTopics(ctx, tx, id, params.TopicIDs)
	})
	if err != nil {
		return nil, err
	}
	return db.GetTalk(ctx, id)
}

// GetTalk retrieves a talk by id with its speaker name and topics.
// Returns ErrNotFound if absent.
func (db *DB) GetTalk(ctx context.Context, id int64) (*models.Talk, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT t.id, t.title, t.description, t.duration_seconds, t.views,
			t.published_at, t.speaker_id, s.name, t.created_at, t.updated_at
		FROM talks t JOIN speakers s ON s.id = t.speaker_id
		WHERE t.id = ?`, id)

	talk, err := scanTalk(row)
	if err != nil {
		return nil, err
	}

	topicsByTalk, err := db.loadTalkTopics(ctx, []int64{talk.ID})
	if err != nil {
		return nil, err
	}
	talk.Topics = topicsByTalk[talk.ID]
	return talk, nil
}

// ListTalks returns talks matching the filter, ordered by title. Topics are
// populated for every returned talk.
func (db *DB) ListTalks(ctx context.Context, filter TalkFilter) ([]models.Talk, error) {
	query := `SELECT t.id, t.title, t.description, t.duration_seconds, t.views,
			t.published_at, t.speaker_id, s.name, t.created_at, t.updated_at
		FROM talks t JOIN speakers s ON s.id = t.speaker_id`
	args := []any{}

	if filter.TopicID != 0 {
		query += ` JOIN talk_topics tt ON tt.talk_id = t.id AND tt.topic_id = ?`
		args = append(args, filter.TopicID)
	}
	if filter.SpeakerID != 0 {
		query += ` WHERE t.speaker_id = ?`
		args = append(args, filter.SpeakerID)
	}
	query += ` ORDER BY t.title, t.id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list talks: %w", err)
	}
	defer rows.Close()

	talks := []models.Talk{}
	ids := []int64{}
	for rows.Next() {
		var t models.Talk
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.DurationSeconds,
			&t.Views, &t.PublishedAt, &t.SpeakerID, &t.SpeakerName,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan talk: %w", err)
		}
		talks = append(talks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topicsByTalk, err := db.loadTalkTopics(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range talks {
		talks[i].Topics = topicsByTalk[talks[i].ID]
	}
	return talks, nil
}

// UpdateTalk applies the non-nil fields of params. A non-nil TopicIDs
// replaces the talk's topic set atomically with the rest of the update.
// Returns ErrNotFound for an absent talk and ErrInvalidReference for an
// unresolvable speaker or topic id.
func (db *DB) UpdateTalk(ctx context.Context, id int64, params UpdateTalkParams) (*models.Talk, error) {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var t models.Talk
		row := tx.QueryRowContext(ctx,
			`SELECT id, title, description, duration_seconds, views, published_at, speaker_id
			FROM talks WHERE id = ?`, id)
		err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DurationSeconds,
			&t.Views, &t.PublishedAt, &t.SpeakerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load talk: %w", err)
		}

		if params.Title != nil {
			t.Title = *params.Title
		}
		if params.Description != nil {
			t.Description = *params.Description
		}
		if params.DurationSeconds != nil {
			t.DurationSeconds = *params.DurationSeconds
		}
		if params.Views != nil {
			t.Views = *params.Views
		}
		if params.PublishedAt != nil {
			t.PublishedAt = *params.PublishedAt
		}
		if params.SpeakerID != nil {
			t.SpeakerID = *params.SpeakerID
			if err := requireRow(ctx, tx, `SELECT 1 FROM speakers WHERE id = ?`,
				t.SpeakerID, "speaker", t.SpeakerID); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE talks SET title = ?, description = ?, duration_seconds = ?,
				views = ?, published_at = ?, speaker_id = ?, updated_at = ?
			WHERE id = ?`,
			t.Title, t.Description, t.DurationSeconds, t.Views, t.PublishedAt,
			t.SpeakerID, now(), id)
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("%w: speaker %d", ErrInvalidReference, t.SpeakerID)
			}
			return fmt.Errorf("update talk: %w", err)
		}

		if params.TopicIDs != nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM talk_topics WHERE talk_id = ?`, id); err != nil {
				return fmt.Errorf("clear talk topics: %w", err)
			}
			if err := insertTalkTopics(ctx, tx, id, *params.TopicIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetTalk(ctx, id)
}

// DeleteTalk removes a talk; its reviews and topic associations cascade
// away. Returns ErrNotFound if absent.
func (db *DB) DeleteTalk(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM talks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete talk: %w", err)
	}
	return requireAffected(res)
}

// insertTalkTopics associates topicIDs with a talk. Duplicate ids in the
// input collapse to one association row.
func insertTalkTopics(ctx context.Context, tx *sql.Tx, talkID int64, topicIDs []int64) error {
	seen := make(map[int64]bool, len(topicIDs))
	for _, topicID := range topicIDs {
		if seen[topicID] {
			continue
		}
		seen[topicID] = true

		if err := requireRow(ctx, tx, `SELECT 1 FROM topics WHERE id = ?`,
			topicID, "topic", topicID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO talk_topics (talk_id, topic_id) VALUES (?, ?)`,
			talkID, topicID)
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("%w: topic %d", ErrInvalidReference, topicID)
			}
			return fmt.Errorf("insert talk topic: %w", err)
		}
	}
	return nil
}

// loadTalkTopics returns the topics of each given talk, keyed by talk id.
func (db *DB) loadTalkTopics(ctx context.Context, talkIDs []int64) (map[int64][]models.Topic, error) {
	result := make(map[int64][]models.Topic, len(talkIDs))
	if len(talkIDs) == 0 {
		return result, nil
	}

	query := `SELECT tt.talk_id, tp.id, tp.name, tp.created_at, tp.updated_at
		FROM talk_topics tt JOIN topics tp ON tp.id = tt.topic_id
		WHERE tt.talk_id IN (?` + repeatPlaceholder(len(talkIDs)-1) + `)
		ORDER BY tp.name`

	args := make([]any, len(talkIDs))
	for i, id := range talkIDs {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load talk topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var talkID int64
		var t models.Topic
		if err := rows.Scan(&talkID, &t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan talk topic: %w", err)
		}
		result[talkID] = append(result[talkID], t)
	}
	return result, rows.Err()
}

// requireRow returns ErrInvalidReference (annotated with kind and id) when
// the query yields no row.
func requireRow(ctx context.Context, tx *sql.Tx, query string, arg any, kind string, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %d", ErrInvalidReference, kind, id)
	}
	if err != nil {
		return fmt.Errorf("check %s reference: %w", kind, err)
	}
	return nil
}

// repeatPlaceholder returns n copies of ",?" for IN clauses.
func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ",?"
	}
	return out
}

func scanTalk(row *sql.Row) (*models.Talk, error) {
	var t models.Talk
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DurationSeconds, &t.Views,
		&t.PublishedAt, &t.SpeakerID, &t.SpeakerName, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan talk: %w", err)
	}
	return &t, nil
}
