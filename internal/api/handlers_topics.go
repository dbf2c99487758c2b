// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/database"
)

// ListTopics returns all topics.
//
// Method: GET
// Path: /api/v1/topics
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	topics, err := h.db.ListTopics(ctx)
	if err != nil {
		respondStoreError(ctx, w, err, "topics")
		return
	}
	respondJSON(ctx, w, http.StatusOK, topics, start)
}

// GetTopic returns one topic with its talks embedded.
//
// Method: GET
// Path: /api/v1/topics/{id}
func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	topic, err := h.db.GetTopic(ctx, id)
	if err != nil {
		respondStoreError(ctx, w, err, "topic")
		return
	}

	talks, err := h.db.ListTalks(ctx, database.TalkFilter{TopicID: id})
	if err != nil {
		respondStoreError(ctx, w, err, "topic talks")
		return
	}
	topic.Talks = talks

	respondJSON(ctx, w, http.StatusOK, topic, start)
}

// CreateTopic inserts a topic, or returns the existing one when the name is
// already taken (200 existing, 201 created).
//
// Method: POST
// Path: /api/v1/topics
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	topic, created, err := h.db.CreateTopic(ctx, req.Name)
	if err != nil {
		respondStoreError(ctx, w, err, "topic")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(ctx, w, status, topic, start)
}

// UpdateTopic renames a topic.
//
// Method: PUT
// Path: /api/v1/topics/{id}
func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req UpdateTopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	start := time.Now()

	topic, err := h.db.UpdateTopic(ctx, id, req.Name)
	if err != nil {
		respondStoreError(ctx, w, err, "topic")
		return
	}
	respondJSON(ctx, w, http.StatusOK, topic, start)
}

// DeleteTopic removes a topic; talks keep existing without the label.
//
// Method: DELETE
// Path: /api/v1/topics/{id}
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.db.DeleteTopic(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "topic")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "topic deleted"}, time.Time{})
}

// ListTopicTalks returns the talks carrying one topic.
//
// Method: GET
// Path: /api/v1/topics/{id}/talks
func (h *Handler) ListTopicTalks(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	start := time.Now()

	if _, err := h.db.GetTopic(ctx, id); err != nil {
		respondStoreError(ctx, w, err, "topic")
		return
	}

	talks, err := h.db.ListTalks(ctx, database.TalkFilter{TopicID: id})
	if err != nil {
		respondStoreError(ctx, w, err, "topic talks")
		return
	}
	respondJSON(ctx, w, http.StatusOK, talks, start)
}
