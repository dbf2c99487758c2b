// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_APIErrorFromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"VALIDATION_ERROR","message":"name is required"}}`))
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	_, err := client.EnsureSpeaker(context.Background(), "")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "name is required")
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"DATABASE_ERROR","message":"boom"}}`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig(srv.URL)
	cfg.FailureThreshold = 3
	cfg.CooldownPeriod = time.Minute
	client := NewClient(cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.EnsureSpeaker(ctx, "x")
		require.Error(t, err)
	}
	assert.Equal(t, int64(3), calls.Load())

	// The circuit is open now; no further request reaches the server.
	_, err := client.EnsureSpeaker(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int64(3), calls.Load())
}

func TestClient_RowRejectionsDoNotTrip(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"VALIDATION_ERROR","message":"bad row"}}`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig(srv.URL)
	cfg.FailureThreshold = 2
	client := NewClient(cfg)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := client.EnsureSpeaker(ctx, "x")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
	}
	// Every call reached the server; 4xx answers never open the circuit.
	assert.Equal(t, int64(5), calls.Load())
}
