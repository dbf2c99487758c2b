// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/talkboard/talkboard/internal/database"
	"github.com/talkboard/talkboard/internal/logging"
	"github.com/talkboard/talkboard/internal/models"
)

// Error codes surfaced in APIError.Code.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeDatabase         = "DATABASE_ERROR"
)

// respondJSON writes a success envelope. queryStart, when non-zero, is used
// to report query time in the metadata.
func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data interface{}, queryStart time.Time) {
	resp := &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(ctx),
		},
	}
	if !queryStart.IsZero() {
		resp.Metadata.QueryTimeMS = time.Since(queryStart).Milliseconds()
	}
	writeJSON(ctx, w, status, resp)
}

// respondError writes an error envelope with a machine-readable code.
func respondError(ctx context.Context, w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	if status >= http.StatusInternalServerError {
		logging.Ctx(ctx).Error().Str("code", code).Str("message", message).Msg("api error")
	}
	writeJSON(ctx, w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now(), RequestID: logging.RequestIDFromContext(ctx)},
		Error:    &models.APIError{Code: code, Message: message, Details: details},
	})
}

// respondAPIError writes an error envelope from a prepared APIError.
func respondAPIError(ctx context.Context, w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondError(ctx, w, status, apiErr.Code, apiErr.Message, apiErr.Details)
}

// respondStoreError maps store errors to HTTP failures: ErrNotFound becomes
// 404, ErrInvalidReference and ErrDuplicateName 400, anything else 500.
// entity names the record kind in the message.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, codeNotFound, entity+" not found", nil)
	case errors.Is(err, database.ErrInvalidReference), errors.Is(err, database.ErrDuplicateName):
		respondError(ctx, w, http.StatusBadRequest, codeValidation, err.Error(), nil)
	default:
		logging.Ctx(ctx).Error().Err(err).Str("entity", entity).Msg("store operation failed")
		respondError(ctx, w, http.StatusInternalServerError, codeDatabase, "database operation failed", nil)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("write response")
	}
}
