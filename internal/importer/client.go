// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/talkboard/talkboard/internal/models"
)

// apiEnvelope mirrors the server response envelope with the payload left
// raw for per-call decoding.
type apiEnvelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server rejected request (status %d)", e.StatusCode)
}

// ClientConfig configures the importer's REST client.
type ClientConfig struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive transport failures
	// before the circuit opens. Row-level 4xx rejections do not count.
	FailureThreshold uint32

	// CooldownPeriod is how long the circuit stays open before probing.
	CooldownPeriod time.Duration
}

// DefaultClientConfig returns sensible defaults for a local server.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:          baseURL,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		CooldownPeriod:   15 * time.Second,
	}
}

// Client talks to the Talkboard JSON API. Transport failures and 5xx
// answers trip a circuit breaker so a dead server fails the import fast
// instead of timing out on every remaining row.
type Client struct {
	base    string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[*apiEnvelope]
}

// NewClient creates a REST client for the given server.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	return &Client{
		base:  cfg.BaseURL,
		httpc: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*apiEnvelope](gobreaker.Settings{
			Name:        "talkboard-import",
			MaxRequests: 1,
			Timeout:     cfg.CooldownPeriod,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
			},
		}),
	}
}

// Health checks that the server is up before an import starts.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v1/health", nil)
	return err
}

// EnsureSpeaker creates the speaker or fetches the existing one by name.
func (c *Client) EnsureSpeaker(ctx context.Context, name string) (*models.Speaker, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/speakers", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var speaker models.Speaker
	if err := json.Unmarshal(env.Data, &speaker); err != nil {
		return nil, fmt.Errorf("decode speaker: %w", err)
	}
	return &speaker, nil
}

// EnsureTopic creates the topic or fetches the existing one by name.
func (c *Client) EnsureTopic(ctx context.Context, name string) (*models.Topic, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/topics", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var topic models.Topic
	if err := json.Unmarshal(env.Data, &topic); err != nil {
		return nil, fmt.Errorf("decode topic: %w", err)
	}
	return &topic, nil
}

// TalkPayload is the body of POST /api/v1/talks.
type TalkPayload struct {
	Title           string  `json:"title"`
	DurationSeconds int64   `json:"duration_seconds"`
	Views           int64   `json:"views"`
	PublishedAt     string  `json:"published_at,omitempty"`
	SpeakerID       int64   `json:"speaker_id"`
	TopicIDs        []int64 `json:"topic_ids,omitempty"`
}

// CreateTalk inserts one talk.
func (c *Client) CreateTalk(ctx context.Context, payload TalkPayload) (*models.Talk, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/talks", payload)
	if err != nil {
		return nil, err
	}
	var talk models.Talk
	if err := json.Unmarshal(env.Data, &talk); err != nil {
		return nil, fmt.Errorf("decode talk: %w", err)
	}
	return &talk, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*apiEnvelope, error) {
	return c.breaker.Execute(func() (*apiEnvelope, error) {
		var reader io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		var env apiEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			}
			return nil, apiErr
		}
		return &env, nil
	})
}
