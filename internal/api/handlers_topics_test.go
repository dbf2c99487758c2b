// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/talkboard/internal/models"
)

func TestCreateTopic_NewAndExisting(t *testing.T) {
	s := newTestServer(t)

	code, env := s.request(t, http.MethodPost, "/api/v1/topics", map[string]string{"name": "psychology"})
	require.Equal(t, http.StatusCreated, code)

	var topic models.Topic
	decodeData(t, env, &topic)
	assert.Equal(t, "psychology", topic.Name)

	code, env = s.request(t, http.MethodPost, "/api/v1/topics", map[string]string{"name": "psychology"})
	require.Equal(t, http.StatusOK, code)

	var existing models.Topic
	decodeData(t, env, &existing)
	assert.Equal(t, topic.ID, existing.ID)
}

func TestGetTopic_EmbedsTalks(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)
	require.Len(t, talk.Topics, 1)

	code, env := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/topics/%d", talk.Topics[0].ID), nil)
	require.Equal(t, http.StatusOK, code)

	var topic models.Topic
	decodeData(t, env, &topic)
	require.Len(t, topic.Talks, 1)
	assert.Equal(t, talk.ID, topic.Talks[0].ID)
}

func TestUpdateTopic(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/topics/%d", talk.Topics[0].ID),
		map[string]string{"name": "renamed-topic"})
	require.Equal(t, http.StatusOK, code)

	var topic models.Topic
	decodeData(t, env, &topic)
	assert.Equal(t, "renamed-topic", topic.Name)

	code, _ = s.request(t, http.MethodPut, "/api/v1/topics/9999", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteTopic_TalkSurvives(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, _ := s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/topics/%d", talk.Topics[0].ID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/talks/%d", talk.ID), nil)
	require.Equal(t, http.StatusOK, code)

	var got models.Talk
	decodeData(t, env, &got)
	assert.Empty(t, got.Topics)
}

func TestListTopicTalks(t *testing.T) {
	s := newTestServer(t)
	talk := s.seedTalk(t)

	code, env := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/topics/%d/talks", talk.Topics[0].ID), nil)
	require.Equal(t, http.StatusOK, code)

	var talks []models.Talk
	decodeData(t, env, &talks)
	require.Len(t, talks, 1)
	assert.Equal(t, talk.ID, talks[0].ID)

	code, _ = s.request(t, http.MethodGet, "/api/v1/topics/9999/talks", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateTopic_DuplicateNameRejected(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.request(t, http.MethodPost, "/api/v1/topics", map[string]string{"name": "science"})
	require.Equal(t, http.StatusCreated, code)
	code, env := s.request(t, http.MethodPost, "/api/v1/topics", map[string]string{"name": "tech"})
	require.Equal(t, http.StatusCreated, code)

	var topic models.Topic
	decodeData(t, env, &topic)

	code, env = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/topics/%d", topic.ID),
		map[string]string{"name": "science"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
