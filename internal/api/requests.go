// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/talkboard/talkboard/internal/validation"
)

// CreateSpeakerRequest is the body of POST /speakers.
type CreateSpeakerRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Bio  string `json:"bio" validate:"max=2000"`
}

// UpdateSpeakerRequest is the body of PUT /speakers/{id}. Absent fields are
// left unchanged.
type UpdateSpeakerRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
	Bio  *string `json:"bio" validate:"omitempty,max=2000"`
}

// CreateTopicRequest is the body of POST /topics.
type CreateTopicRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateTopicRequest is the body of PUT /topics/{id}.
type UpdateTopicRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateTalkRequest is the body of POST /talks.
type CreateTalkRequest struct {
	Title           string  `json:"title" validate:"required,max=300"`
	Description     string  `json:"description" validate:"max=5000"`
	DurationSeconds int64   `json:"duration_seconds" validate:"required,gt=0"`
	Views           int64   `json:"views" validate:"gte=0"`
	PublishedAt     string  `json:"published_at" validate:"omitempty,talkdate"`
	SpeakerID       int64   `json:"speaker_id" validate:"required,gt=0"`
	TopicIDs        []int64 `json:"topic_ids" validate:"dive,gt=0"`
}

// UpdateTalkRequest is the body of PUT /talks/{id}. Absent fields are left
// unchanged; a present topic_ids replaces the whole topic set.
type UpdateTalkRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=300"`
	Description     *string  `json:"description" validate:"omitempty,max=5000"`
	DurationSeconds *int64   `json:"duration_seconds" validate:"omitempty,gt=0"`
	Views           *int64   `json:"views" validate:"omitempty,gte=0"`
	PublishedAt     *string  `json:"published_at" validate:"omitempty,talkdate"`
	SpeakerID       *int64   `json:"speaker_id" validate:"omitempty,gt=0"`
	TopicIDs        *[]int64 `json:"topic_ids" validate:"omitempty,dive,gt=0"`
}

// CreateReviewRequest is the body of POST /reviews and
// POST /talks/{id}/reviews (the nested form ignores TalkID in the body).
type CreateReviewRequest struct {
	TalkID  int64  `json:"talk_id" validate:"omitempty,gt=0"`
	Content string `json:"content" validate:"required,max=400"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// UpdateReviewRequest is the body of PUT /reviews/{id}.
type UpdateReviewRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=400"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// normalizeRating maps a zero rating to nil. Zero sneaks past omitempty on
// pointer fields and would break the 1 to 5 range in storage.
func normalizeRating(r *int) *int {
	if r != nil && *r == 0 {
		return nil
	}
	return r
}

// decodeAndValidate decodes the JSON body into req and validates it.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, codeValidation,
			"invalid JSON body: "+err.Error(), nil)
		return false
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondAPIError(r.Context(), w, http.StatusBadRequest, verr.ToAPIError())
		return false
	}
	return true
}

// idParam parses the {id} route parameter. On failure it writes a
// validation error and returns false.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(r.Context(), w, http.StatusBadRequest, codeValidation,
			"id must be a positive integer", map[string]interface{}{"id": raw})
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive-integer query parameter. The second
// return value is false when the parameter is present but malformed.
func queryID(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
