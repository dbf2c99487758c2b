// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/talkboard/internal/models"
)

func TestCreateReview_TopLevel(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodPost, "/api/v1/reviews",
		map[string]interface{}{"talk_id": talk.ID, "content": "a must watch", "rating": 5})
	require.Equal(t, http.StatusCreated, code, "error: %+v", env.Error)

	var review models.Review
	decodeData(t, env, &review)
	assert.Equal(t, talk.ID, review.TalkID)
	assert.Equal(t, "a must watch", review.Content)
}

func TestCreateReview_Validation(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing talk_id", map[string]interface{}{"content": "no talk"}},
		{"empty content", map[string]interface{}{"talk_id": talk.ID, "content": ""}},
		{"content too long", map[string]interface{}{"talk_id": talk.ID, "content": strings.Repeat("x", 401)}},
		{"rating out of range", map[string]interface{}{"talk_id": talk.ID, "content": "ok", "rating": 6}},
		{"unknown talk", map[string]interface{}{"talk_id": 9999, "content": "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.request(t, http.MethodPost, "/api/v1/reviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestGetReview_IncludesTalkTitle(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodPost, "/api/v1/reviews",
		map[string]interface{}{"talk_id": talk.ID, "content": "solid talk"})
	require.Equal(t, http.StatusCreated, code)
	var created models.Review
	decodeData(t, env, &created)

	code, env = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, code)

	var review models.Review
	decodeData(t, env, &review)
	assert.Equal(t, talk.Title, review.TalkTitle)
}

func TestUpdateReview(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodPost, "/api/v1/reviews",
		map[string]interface{}{"talk_id": talk.ID, "content": "first impression", "rating": 2})
	require.Equal(t, http.StatusCreated, code)
	var created models.Review
	decodeData(t, env, &created)

	code, env = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/reviews/%d", created.ID),
		map[string]interface{}{"rating": 4})
	require.Equal(t, http.StatusOK, code)

	var updated models.Review
	decodeData(t, env, &updated)
	assert.Equal(t, "first impression", updated.Content)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)
}

func TestDeleteReview(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodPost, "/api/v1/reviews",
		map[string]interface{}{"talk_id": talk.ID, "content": "short lived"})
	require.Equal(t, http.StatusCreated, code)
	var created models.Review
	decodeData(t, env, &created)

	code, _ = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/reviews/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	// The talk itself is untouched.
	code, _ = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/talks/%d", talk.ID), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestListReviews(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	for _, content := range []string{"one", "two"} {
		code, _ := s.request(t, http.MethodPost, "/api/v1/reviews",
			map[string]interface{}{"talk_id": talk.ID, "content": content})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := s.request(t, http.MethodGet, "/api/v1/reviews", nil)
	require.Equal(t, http.StatusOK, code)

	var reviews []models.Review
	decodeData(t, env, &reviews)
	require.Len(t, reviews, 2)
	assert.Equal(t, "two", reviews[0].Content)
}
