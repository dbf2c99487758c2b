// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/database"
)

// ListTalks returns the catalog, optionally filtered by speaker_id and
// topic_id query parameters.
//
// Method: GET
// Path: /api/v1/talks
func (h *Handler) ListTalks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	speakerID, ok := queryID(r, "speaker_id")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, codeValidation,
			"speaker_id must be a positive integer", nil)
		return
	}
	topicID, ok := queryID(r, "topic_id")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, codeValidation,
			"topic_id must be a positive integer", nil)
		return
	}

	start := time.Now()
	talks, err := h.db.ListTalks(ctx, database.TalkFilter{SpeakerID: speakerID, TopicID: topicID})
	if err != nil {
		respondStoreError(ctx, w, err, "talks")
		return
	}
	respondJSON(ctx, w, http.StatusOK, talks, start)
}

// GetTalk returns one talk with its reviews embedded.
//
// Method: GET
// Path: /api/v1/talks/{id}
func (h *Handler) GetTalk(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	talk, err := h.db.GetTalk(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "talk")
		return
	}

	reviews, err := h.db.ListReviewsByTalk(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "talk reviews")
		return
	}
	talk.Reviews = reviews

	respondJSON(ctx, w, http.StatusOK, talk, start)
}

// CreateTalk inserts a talk. The speaker and every topic id must already
// exist.
//
// Method: POST
// Path: /api/v1/talks
func (h *Handler) CreateTalk(w http.ResponseWriter, r *http.Request) {
	var req CreateTalkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	talk, err := h.db.CreateTalk(ctx, database.CreateTalkParams{
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		Views:           req.Views,
		PublishedAt:     req.PublishedAt,
		SpeakerID:       req.SpeakerID,
		TopicIDs:        req.TopicIDs,
	})
	if err != nil {
		respondStoreError(ctx, w, err, "talk")
		return
	}
	respondJSON(ctx, w, http.StatusCreated, talk, start)
}

// UpdateTalk applies a partial update. A present topic_ids replaces the
// talk's whole topic set.
//
// Method: PUT
// Path: /api/v1/talks/{id}
func (h *Handler) UpdateTalk(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req UpdateTalkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	talk, err := h.db.UpdateTalk(ctx, id, database.UpdateTalkParams{
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		Views:           req.Views,
		PublishedAt:     req.PublishedAt,
		SpeakerID:       req.SpeakerID,
		TopicIDs:        req.TopicIDs,
	})
	if err != nil {
		respondStoreError(ctx, w, err, "talk")
		return
	}
	respondJSON(ctx, w, http.StatusOK, talk, start)
}

// DeleteTalk removes a talk and, through the schema, its reviews and topic
// links.
//
// Method: DELETE
// Path: /api/v1/talks/{id}
func (h *Handler) DeleteTalk(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.db.DeleteTalk(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "talk")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "talk deleted"}, time.Time{})
}

// ListTalkReviews returns the reviews of one talk, oldest first.
//
// Method: GET
// Path: /api/v1/talks/{id}/reviews
func (h *Handler) ListTalkReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	if _, err := h.db.GetTalk(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "talk")
		return
	}

	reviews, err := h.db.ListReviewsByTalk(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "talk reviews")
		return
	}
	respondJSON(ctx, w, http.StatusOK, reviews, start)
}

// CreateTalkReview attaches a review to the talk named by the route. A
// talk_id in the body is ignored.
//
// Method: POST
// Path: /api/v1/talks/{id}/reviews
func (h *Handler) CreateTalkReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	review, err := h.db.CreateReview(ctx, id, req.Content, normalizeRating(req.Rating))
	if err != nil {
		respondStoreError(ctx, w, err, "review")
		return
	}
	respondJSON(ctx, w, http.StatusCreated, review, start)
}
