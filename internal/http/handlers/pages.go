package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/spacetraveling/internal/http/errors"
	"github.com/pribylovaa/spacetraveling/internal/listing"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

// Home — GET /: первая страница списка и новая сессия списка.
// Прошлая сессия браузера не продолжается: уход со страницы сбрасывает список.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Home"

	page, err := h.Blog.HomePage(r.Context())
	if err != nil {
		h.renderFailure(w, r, op, err)
		return
	}

	sess := h.Sessions.Create(page)
	setSessionCookie(w, sess)
	w.Header().Set("Cache-Control", "no-store")

	v := sess.View()
	body, err := h.View.Home(view.HomeData{Posts: v.Posts, HasMore: v.HasMore})
	h.renderPage(w, r, http.StatusOK, body, err)
}

// More — POST /more: догрузка следующей страницы в сессию из cookie.
//
// Особенности:
//   - сессии нет или она истекла -> 303 на /;
//   - догрузка уже идёт -> 409 с текущим списком;
//   - ошибка CMS -> статус ошибки, список без изменений, сообщение и кнопка.
func (h *Handlers) More(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromCookie(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	status := http.StatusOK
	notice := ""

	if _, err := h.Blog.LoadMore(r.Context(), sess); err != nil {
		status, _ = apierrors.ToHTTP(err)
		switch {
		case errors.Is(err, listing.ErrInFlight):
			notice = h.View.T("A load is already in progress")
		default:
			notice = h.View.T("Could not load more posts")
		}
	}

	v := sess.View()
	body, err := h.View.Home(view.HomeData{Posts: v.Posts, HasMore: v.HasMore, Notice: notice})
	h.renderPage(w, r, status, body, err)
}

// Post — GET /post/{slug}.
//
// Особенности:
//   - пост ещё собирается -> 200, заглушка "Carregando..." и Refresh: 1;
//   - нет в CMS -> 404;
//   - фоновая сборка упала -> статус ошибки и страница ошибки.
func (h *Handlers) Post(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Post"

	res, err := h.Blog.ResolvePost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderFailure(w, r, op, err)
		return
	}

	switch res.State {
	case models.StateResolved:
		body, err := h.View.Post(res.Post)
		h.renderPage(w, r, http.StatusOK, body, err)
	case models.StateNotFound:
		body, err := h.View.NotFound()
		h.renderPage(w, r, http.StatusNotFound, body, err)
	case models.StateFailed:
		h.renderFailure(w, r, op, res.Err)
	default:
		w.Header().Set("Refresh", "1")
		w.Header().Set("Cache-Control", "no-store")
		body, err := h.View.Fallback()
		h.renderPage(w, r, http.StatusOK, body, err)
	}
}

// NotFound — страница 404 для неизвестных маршрутов.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	body, err := h.View.NotFound()
	h.renderPage(w, r, http.StatusNotFound, body, err)
}

// Internal — ответ 500 после паники: JSON для /api, иначе страница ошибки.
func (h *Handlers) Internal(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		apierrors.WriteError(w, r, errors.New("internal"))
		return
	}

	body, err := h.View.Error("")
	h.renderPage(w, r, http.StatusInternalServerError, body, err)
}

func setSessionCookie(w http.ResponseWriter, sess *listing.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) sessionFromCookie(r *http.Request) (*listing.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}

	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil, false
	}

	sess, err := h.Sessions.Get(id)
	if err != nil {
		return nil, false
	}

	return sess, true
}
