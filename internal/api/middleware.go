// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/talkboard/talkboard/internal/logging"
)

// requestHeaderID is the header carrying the request ID in and out.
const requestHeaderID = "X-Request-ID"

// RequestID assigns each request an ID (honoring an inbound X-Request-ID),
// echoes it in the response header, and stores a request-scoped logger in
// the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestHeaderID)
		if id == "" {
			id = logging.GenerateRequestID()
		}
		w.Header().Set(requestHeaderID, id)

		ctx := logging.ContextWithRequestID(r.Context(), id)
		logger := logging.With().Str("request_id", id).Logger()
		ctx = logging.ContextWithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &loggedResponse{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type loggedResponse struct {
	http.ResponseWriter
	status int
}

func (r *loggedResponse) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
