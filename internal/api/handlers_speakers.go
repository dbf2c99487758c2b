// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/database"
)

// ListSpeakers returns all speakers.
//
// Method: GET
// Path: /api/v1/speakers
func (h *Handler) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	speakers, err := h.db.ListSpeakers(ctx)
	if err != nil {
		respondStoreError(ctx, w, err, "speakers")
		return
	}
	respondJSON(ctx, w, http.StatusOK, speakers, start)
}

// GetSpeaker returns one speaker with their talks embedded.
//
// Method: GET
// Path: /api/v1/speakers/{id}
func (h *Handler) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	speaker, err := h.db.GetSpeaker(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "speaker")
		return
	}

	talks, err := h.db.ListTalks(ctx, database.TalkFilter{SpeakerID: id})
	if err != nil {
		respondStoreError(ctx, w, err, "speaker talks")
		return
	}
	speaker.Talks = talks

	respondJSON(ctx, w, http.StatusOK, speaker, start)
}

// CreateSpeaker inserts a speaker, or returns the existing one when the
// name is already taken (200 existing, 201 created).
//
// Method: POST
// Path: /api/v1/speakers
func (h *Handler) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req CreateSpeakerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	speaker, created, err := h.db.CreateSpeaker(ctx, req.Name, req.Bio)
	if err != nil {
		respondStoreError(ctx, w, err, "speaker")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(ctx, w, status, speaker, start)
}

// UpdateSpeaker applies a partial update to a speaker.
//
// Method: PUT
// Path: /api/v1/speakers/{id}
func (h *Handler) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req UpdateSpeakerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	speaker, err := h.db.UpdateSpeaker(ctx, id, database.UpdateSpeakerParams{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		respondStoreError(ctx, w, err, "speaker")
		return
	}
	respondJSON(ctx, w, http.StatusOK, speaker, start)
}

// DeleteSpeaker removes a speaker; their talks and those talks' reviews
// cascade away.
//
// Method: DELETE
// Path: /api/v1/speakers/{id}
func (h *Handler) DeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.db.DeleteSpeaker(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "speaker")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "speaker deleted"}, time.Time{})
}

// ListSpeakerTalks returns the talks of one speaker.
//
// Method: GET
// Path: /api/v1/speakers/{id}/talks
func (h *Handler) ListSpeakerTalks(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	// The 404 for an unknown speaker comes from the existence check, not
	// from an empty list.
	if _, err := h.db.GetSpeaker(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "speaker")
		return
	}

	talks, err := h.db.ListTalks(ctx, database.TalkFilter{SpeakerID: id})
	if err != nil {
		respondStoreError(ctx, w, err, "speaker talks")
		return
	}
	respondJSON(ctx, w, http.StatusOK, talks, start)
}
