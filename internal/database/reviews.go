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

// UpdateReviewParams holds the optional fields of a review update.
type UpdateReviewParams struct {
	Content *string
	Rating  *int
}

// CreateReview inserts a review for a talk. Returns ErrInvalidReference
// when the talk does not exist; nothing is written in that case.
func (db *DB) CreateReview(ctx context.Context, talkID int64, content string, rating *int) (*models.Review, error) {
	var id int64
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM talks WHERE id = ?`,
			talkID, "talk", talkID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO reviews (talk_id, content, rating, created_at) VALUES (?, ?, ?, ?)`,
			talkID, content, rating, now())
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("%w: talk %d", ErrInvalidReference, talkID)
			}
			return fmt.Errorf("insert review: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("review insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetReview(ctx, id)
}

// GetReview retrieves a review by id with its talk title.
// Returns ErrNotFound if absent.
func (db *DB) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT r.id, r.talk_id, t.title, r.content, r.rating, r.created_at
		FROM reviews r JOIN talks t ON t.id = r.talk_id
		WHERE r.id = ?`, id)
	return scanReview(row)
}

// ListReviews returns all reviews, newest first.
func (db *DB) ListReviews(ctx context.Context) ([]models.Review, error) {
	return db.queryReviews(ctx,
		`SELECT r.id, r.talk_id, t.title, r.content, r.rating, r.created_at
		FROM reviews r JOIN talks t ON t.id = r.talk_id
		ORDER BY r.id DESC`)
}

// ListReviewsByTalk returns the reviews of one talk, oldest first.
func (db *DB) ListReviewsByTalk(ctx context.Context, talkID int64) ([]models.Review, error) {
	return db.queryReviews(ctx,
		`SELECT r.id, r.talk_id, t.title, r.content, r.rating, r.created_at
		FROM reviews r JOIN talks t ON t.id = r.talk_id
		WHERE r.talk_id = ?
		ORDER BY r.id`, talkID)
}

// UpdateReview applies the non-nil fields of params.
// Returns ErrNotFound for an absent review.
func (db *DB) UpdateReview(ctx context.Context, id int64, params UpdateReviewParams) (*models.Review, error) {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var content string
		var rating sql.NullInt64
		row := tx.QueryRowContext(ctx, `SELECT content, rating FROM reviews WHERE id = ?`, id)
		if err := row.Scan(&content, &rating); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load review: %w", err)
		}

		if params.Content != nil {
			content = *params.Content
		}
		if params.Rating != nil {
			rating = sql.NullInt64{Int64: int64(*params.Rating), Valid: true}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE reviews SET content = ?, rating = ? WHERE id = ?`,
			content, rating, id); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetReview(ctx, id)
}

// DeleteReview removes a review. Returns ErrNotFound if absent.
func (db *DB) DeleteReview(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return requireAffected(res)
}

func (db *DB) queryReviews(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		var rating sql.NullInt64
		if err := rows.Scan(&r.ID, &r.TalkID, &r.TalkTitle, &r.Content, &rating, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Rating = ratingPtr(rating)
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func scanReview(row *sql.Row) (*models.Review, error) {
	var r models.Review
	var rating sql.NullInt64
	err := row.Scan(&r.ID, &r.TalkID, &r.TalkTitle, &r.Content, &rating, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	r.Rating = ratingPtr(rating)
	return &r, nil
}

// ratingPtr converts a nullable rating column to the model's *int form.
func ratingPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
