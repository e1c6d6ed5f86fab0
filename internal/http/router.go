package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/spacetraveling/internal/http/handlers"
	"github.com/pribylovaa/spacetraveling/internal/http/middleware"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// PostMaxAge — Cache-Control max-age страниц постов (обычно интервал перевыборки).
	PostMaxAge time.Duration
	// FeedMaxAge — Cache-Control max-age ленты RSS.
	FeedMaxAge time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(h.Internal),  // паника -> 500 страницей или JSON
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	root.NotFound(h.NotFound)
	registerRoutes(root, h, opts)

	return root
}

// registerRoutes — единая точка регистрации страниц, JSON API и статики.
func registerRoutes(r chi.Router, h *handlers.Handlers, opts Options) {
	// pages
	r.Get("/", h.Home)
	r.Post("/more", h.More)
	r.With(middleware.CacheControl(opts.PostMaxAge)).Get("/post/{slug}", h.Post)
	r.With(middleware.CacheControl(opts.FeedMaxAge)).Get("/feed.xml", h.FeedXML)

	// api
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{slug}", h.GetPost)
		r.Post("/listing/{id}/next", h.NextPage)
	})

	// static
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(view.Static())))
}
