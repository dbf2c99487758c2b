// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Package models defines the Talkboard entities (Speaker, Talk, Topic,
// Review) shared by the database, API, web, and importer packages.
package models

import "time"

// Speaker is the presenter of one or more talks. Names are unique.
type Speaker struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Talks is populated on detail reads only.
	Talks []Talk `json:"talks,omitempty"`
}

// Topic is a category label attachable to many talks. Names are unique.
type Topic struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Talks is populated on detail reads only.
	Talks []Talk `json:"talks,omitempty"`
}

// Talk is a single recorded TED presentation. It belongs to exactly one
// speaker and carries zero or more topics.
type Talk struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationSeconds int64     `json:"duration_seconds"`
	Views           int64     `json:"views"`
	PublishedAt     string    `json:"published_at,omitempty"` // YYYY-MM-DD
	SpeakerID       int64     `json:"speaker_id"`
	SpeakerName     string    `json:"speaker_name,omitempty"`
	Topics          []Topic   `json:"topics,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Reviews is populated on detail reads only.
	Reviews []Review `json:"reviews,omitempty"`
}

// Review is user-submitted feedback on one talk.
type Review struct {
	ID        int64     `json:"id"`
	TalkID    int64     `json:"talk_id"`
	TalkTitle string    `json:"talk_title,omitempty"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"` // 1..5 when present
	CreatedAt time.Time `json:"created_at"`
}

// APIResponse is the envelope for every JSON API response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error payload.
//
// Codes: VALIDATION_ERROR, NOT_FOUND, METHOD_NOT_ALLOWED, DATABASE_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
