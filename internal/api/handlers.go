// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Package api provides the JSON REST handlers and router for Talkboard.
//
// All endpoints live under /api/v1 and answer with the APIResponse envelope.
// Handlers follow one pattern: parse and validate input, call the store,
// map store errors to HTTP, respond with the envelope.
package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/database"
)

// Handler holds the dependencies of all API endpoints.
type Handler struct {
	db *database.DB
}

// NewHandler creates the API handler set around the given store.
func NewHandler(db *database.DB) *Handler {
	return &Handler{db: db}
}

// Health reports liveness and database reachability.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.db.Ping(ctx); err != nil {
		respondError(ctx, w, http.StatusServiceUnavailable, codeDatabase, "database unreachable",
			map[string]interface{}{"status": "degraded", "database": "unreachable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": "ok",
	}, time.Time{})
}
