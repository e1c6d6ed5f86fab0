package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/spacetraveling/internal/feed"
	apierrors "github.com/pribylovaa/spacetraveling/internal/http/errors"
	"github.com/pribylovaa/spacetraveling/internal/listing"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

// SessionCookie — имя cookie с идентификатором сессии списка.
const SessionCookie = "listing_session"

// Blog — операции сервисного слоя, нужные обработчикам.
type Blog interface {
	HomePage(ctx context.Context) (*models.SummaryPage, error)
	LoadMore(ctx context.Context, sess *listing.Session) (int, error)
	ResolvePost(ctx context.Context, slug string) (models.Resolution, error)
	FeedPosts(ctx context.Context) ([]models.PostSummary, error)
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	Blog     Blog
	Sessions *listing.Store
	View     *view.Renderer
	// Feed — описание ленты RSS; пустой BaseURL восстанавливается из запроса.
	Feed feed.Channel
}

func New(blog Blog, sessions *listing.Store, v *view.Renderer) *Handlers {
	return &Handlers{Blog: blog, Sessions: sessions, View: v}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeHTML пишет готовую страницу.
func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// renderFailure отдаёт страницу ошибки со статусом из apierrors.ToHTTP.
func (h *Handlers) renderFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, _ := apierrors.ToHTTP(err)

	lg := log.From(r.Context())
	if status >= http.StatusInternalServerError {
		lg.Warn("page_failed", slog.String("op", op), slog.String("err", err.Error()))
	} else {
		lg.Debug("page_failed", slog.String("op", op), slog.String("err", err.Error()))
	}

	body, rerr := h.View.Error(h.View.T("The content service is unavailable"))
	if rerr != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}

	writeHTML(w, status, body)
}

// renderPage отдаёт страницу или 500, если шаблон не отрисовался.
func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, body []byte, err error) {
	if err != nil {
		log.From(r.Context()).Error("render_failed", slog.String("path", r.URL.Path), slog.String("err", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeHTML(w, status, body)
}
