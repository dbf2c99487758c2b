// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/database"
)

// ListReviews returns all reviews, newest first.
//
// Method: GET
// Path: /api/v1/reviews
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	reviews, err := h.db.ListReviews(ctx)
	if err != nil {
		respondStoreError(ctx, w, err, "reviews")
		return
	}
	respondJSON(ctx, w, http.StatusOK, reviews, start)
}

// GetReview returns one review.
//
// Method: GET
// Path: /api/v1/reviews/{id}
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	review, err := h.db.GetReview(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "review")
		return
	}
	respondJSON(ctx, w, http.StatusOK, review, start)
}

// CreateReview inserts a review for the talk named in the body.
//
// Method: POST
// Path: /api/v1/reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.TalkID == 0 {
		respondError(ctx, w, http.StatusBadRequest, codeValidation,
			"talk_id is required", nil)
		return
	}

	start := time.Now()
	review, err := h.db.CreateReview(ctx, req.TalkID, req.Content, normalizeRating(req.Rating))
	if err != nil {
		respondStoreError(ctx, w, err, "review")
		return
	}
	respondJSON(ctx, w, http.StatusCreated, review, start)
}

// UpdateReview applies a partial update to a review.
//
// Method: PUT
// Path: /api/v1/reviews/{id}
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	review, err := h.db.UpdateReview(ctx, id, database.UpdateReviewParams{
		Content: req.Content,
		Rating:  normalizeRating(req.Rating),
	})
	if err != nil {
		respondStoreError(ctx, w, err, "review")
		return
	}
	respondJSON(ctx, w, http.StatusOK, review, start)
}

// DeleteReview removes a review.
//
// Method: DELETE
// Path: /api/v1/reviews/{id}
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.db.DeleteReview(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "review")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "review deleted"}, time.Time{})
}
