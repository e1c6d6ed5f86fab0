package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/spacetraveling/internal/feed"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// FeedXML — GET /feed.xml: лента RSS 2.0 со всеми постами.
func (h *Handlers) FeedXML(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.FeedXML"

	posts, err := h.Blog.FeedPosts(r.Context())
	if err != nil {
		h.renderFailure(w, r, op, err)
		return
	}

	ch := h.Feed
	if ch.BaseURL == "" {
		ch.BaseURL = requestBaseURL(r)
	}
	if ch.Language == "" {
		ch.Language = h.View.Locale().Lang()
	}

	body, err := feed.Build(ch, posts)
	if err != nil {
		log.From(r.Context()).Error("feed_build_failed", slog.String("op", op), slog.String("err", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// requestBaseURL — scheme://host входящего запроса с учётом X-Forwarded-Proto.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}

	return scheme + "://" + r.Host
}
