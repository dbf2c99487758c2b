// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Package web serves the HTML pages of Talkboard: the talk catalog,
// speaker and topic directories, talk detail with reviews, and the
// review submission form. Pages read the store directly rather than
// going through the JSON API.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/talkboard/talkboard/internal/database"
	"github.com/talkboard/talkboard/internal/logging"
	"github.com/talkboard/talkboard/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// maxReviewLength mirrors the limit enforced by the store and the API.
const maxReviewLength = 400

// pageTemplates holds one parsed template set per page, each sharing the
// layout.
var pageTemplates = func() map[string]*template.Template {
	pages := []string{
		"index.html", "talks.html", "talk.html", "review_form.html",
		"speakers.html", "speaker.html", "topics.html", "topic.html",
		"notfound.html", "error.html",
	}
	funcs := template.FuncMap{
		"duration": formatDuration,
		"views":    formatViews,
	}
	m := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		m[page] = template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+page))
	}
	return m
}()

// Handler serves all HTML routes.
type Handler struct {
	db *database.DB
}

// New creates the web handler around the given store.
func New(db *database.DB) *Handler {
	return &Handler{db: db}
}

// Routes returns the page router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(h.notFound)

	r.Get("/", h.index)
	r.Get("/talks", h.talks)
	r.Get("/talks/{id}", h.talk)
	r.Get("/talks/{id}/review", h.reviewForm)
	r.Post("/talks/{id}/review", h.submitReview)
	r.Get("/speakers", h.speakers)
	r.Get("/speakers/{id}", h.speaker)
	r.Get("/topics", h.topics)
	r.Get("/topics/{id}", h.topic)

	return r
}

// pageData is the payload handed to every template through the layout.
type pageData struct {
	Title string
	Data  interface{}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		logging.Ctx(r.Context()).Error().Str("page", page).Msg("unknown page template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", pageData{Title: title, Data: data}); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render page")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, database.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("page query failed")
	h.render(w, r, http.StatusInternalServerError, "error.html", "Something went wrong", nil)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound.html", "Page not found", nil)
}

// pathID parses the {id} route parameter. Malformed values render the 404
// page.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.notFound(w, r)
		return 0, false
	}
	return id, true
}

type indexData struct {
	Talks        []models.Talk
	SpeakerCount int
	TopicCount   int
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	talks, err := h.db.ListTalks(ctx, database.TalkFilter{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	speakers, err := h.db.ListSpeakers(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	topics, err := h.db.ListTopics(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", "Talkboard", indexData{
		Talks:        talks,
		SpeakerCount: len(speakers),
		TopicCount:   len(topics),
	})
}

func (h *Handler) talks(w http.ResponseWriter, r *http.Request) {
	talks, err := h.db.ListTalks(r.Context(), database.TalkFilter{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "talks.html", "Talks", talks)
}

func (h *Handler) talk(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	talk, err := h.db.GetTalk(ctx, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	reviews, err := h.db.ListReviewsByTalk(ctx, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	talk.Reviews = reviews

	h.render(w, r, http.StatusOK, "talk.html", talk.Title, talk)
}

// reviewFormData carries the form state across a failed submission.
type reviewFormData struct {
	Talk    *models.Talk
	Content string
	Rating  string
	Error   string
}

func (h *Handler) reviewForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	talk, err := h.db.GetTalk(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "review_form.html", "Review: "+talk.Title, reviewFormData{Talk: talk})
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	talk, err := h.db.GetTalk(ctx, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "review_form.html", "Review: "+talk.Title,
			reviewFormData{Talk: talk, Error: "could not read the form"})
		return
	}

	content := strings.TrimSpace(r.PostFormValue("content"))
	ratingRaw := strings.TrimSpace(r.PostFormValue("rating"))

	form := reviewFormData{Talk: talk, Content: content, Rating: ratingRaw}
	switch {
	case content == "":
		form.Error = "review text must not be empty"
	case len(content) > maxReviewLength:
		form.Error = fmt.Sprintf("review text must be at most %d characters", maxReviewLength)
	}

	var rating *int
	if form.Error == "" && ratingRaw != "" {
		n, err := strconv.Atoi(ratingRaw)
		if err != nil || n < 1 || n > 5 {
			form.Error = "rating must be between 1 and 5"
		} else {
			rating = &n
		}
	}

	if form.Error != "" {
		h.render(w, r, http.StatusBadRequest, "review_form.html", "Review: "+talk.Title, form)
		return
	}

	if _, err := h.db.CreateReview(ctx, id, content, rating); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/talks/%d", id), http.StatusSeeOther)
}

func (h *Handler) speakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := h.db.ListSpeakers(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "speakers.html", "Speakers", speakers)
}

func (h *Handler) speaker(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	speaker, err := h.db.GetSpeaker(ctx, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	talks, err := h.db.ListTalks(ctx, database.TalkFilter{SpeakerID: id})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	speaker.Talks = talks

	h.render(w, r, http.StatusOK, "speaker.html", speaker.Name, speaker)
}

func (h *Handler) topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.db.ListTopics(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "topics.html", "Topics", topics)
}

func (h *Handler) topic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	topic, err := h.db.GetTopic(ctx, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	talks, err := h.db.ListTalks(ctx, database.TalkFilter{TopicID: id})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	topic.Talks = talks

	h.render(w, r, http.StatusOK, "topic.html", topic.Name, topic)
}

// formatDuration renders seconds as "12 min" or "45 sec" for short talks.
func formatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%d sec", seconds)
	}
	return fmt.Sprintf("%d min", (seconds+30)/60)
}

// formatViews renders large view counts with thousand separators.
func formatViews(views int64) string {
	s := strconv.FormatInt(views, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
