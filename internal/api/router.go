// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/metrics"
)

// NewRouter wires the full HTTP surface: the JSON API under /api/v1,
// Prometheus metrics at /metrics, and the server-rendered pages at the
// root via web. web may be nil, in which case unmatched paths 404.
func NewRouter(cfg *config.ServerConfig, h *Handler, web http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestHeaderID},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		}
		r.Use(metrics.Middleware)

		r.MethodNotAllowed(methodNotAllowed)
		r.NotFound(apiNotFound)

		r.Get("/health", h.Health)

		r.Route("/speakers", func(r chi.Router) {
			r.Get("/", h.ListSpeakers)
			r.Post("/", h.CreateSpeaker)
			r.Get("/{id}", h.GetSpeaker)
			r.Put("/{id}", h.UpdateSpeaker)
			r.Delete("/{id}", h.DeleteSpeaker)
			r.Get("/{id}/talks", h.ListSpeakerTalks)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", h.ListTopics)
			r.Post("/", h.CreateTopic)
			r.Get("/{id}", h.GetTopic)
			r.Put("/{id}", h.UpdateTopic)
			r.Delete("/{id}", h.DeleteTopic)
			r.Get("/{id}/talks", h.ListTopicTalks)
		})

		r.Route("/talks", func(r chi.Router) {
			r.Get("/", h.ListTalks)
			r.Post("/", h.CreateTalk)
			r.Get("/{id}", h.GetTalk)
			r.Put("/{id}", h.UpdateTalk)
			r.Delete("/{id}", h.DeleteTalk)
			r.Get("/{id}/reviews", h.ListTalkReviews)
			r.Post("/{id}/reviews", h.CreateTalkReview)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.ListReviews)
			r.Post("/", h.CreateReview)
			r.Get("/{id}", h.GetReview)
			r.Put("/{id}", h.UpdateReview)
			r.Delete("/{id}", h.DeleteReview)
		})
	})

	r.Handle("/metrics", metrics.Handler())

	if web != nil {
		r.NotFound(web.ServeHTTP)
	}

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(r.Context(), w, http.StatusMethodNotAllowed, codeMethodNotAllowed,
		"method not allowed", nil)
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(r.Context(), w, http.StatusNotFound, codeNotFound,
		"route not found", nil)
}
