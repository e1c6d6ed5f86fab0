package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/spacetraveling/internal/http/errors"
	"github.com/pribylovaa/spacetraveling/internal/listing"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/readtime"
	"github.com/pribylovaa/spacetraveling/internal/service"
)

// ListingResponse — состояние сессии списка в JSON API.
type ListingResponse struct {
	SessionID string               `json:"session_id"`
	Posts     []models.PostSummary `json:"posts"`
	HasMore   bool                 `json:"has_more"`
	Page      int                  `json:"page"`
	Added     int                  `json:"added"`
}

// PostResponse — результат разрешения поста в JSON API.
type PostResponse struct {
	State              string       `json:"state"`
	Post               *models.Post `json:"post,omitempty"`
	ReadingTimeMinutes int          `json:"reading_time_minutes,omitempty"`
}

func listingResponse(v listing.View, added int) ListingResponse {
	posts := v.Posts
	if posts == nil {
		posts = []models.PostSummary{}
	}

	return ListingResponse{
		SessionID: v.ID.String(),
		Posts:     posts,
		HasMore:   v.HasMore,
		Page:      v.Page,
		Added:     added,
	}
}

// ListPosts — GET /api/posts: первая страница и новая сессия списка.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Blog.HomePage(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess := h.Sessions.Create(page)
	v := sess.View()

	writeJSON(w, http.StatusOK, listingResponse(v, len(v.Posts)))
}

// NextPage — POST /api/listing/{id}/next: догрузка в сессию.
func (h *Handlers) NextPage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("%w: session id", service.ErrInvalidArgument))
		return
	}

	sess, err := h.Sessions.Get(id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	added, err := h.Blog.LoadMore(r.Context(), sess)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingResponse(sess.View(), added))
}

// GetPost — GET /api/posts/{slug}.
// Пост ещё собирается -> 202 и Retry-After: 1.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	res, err := h.Blog.ResolvePost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	switch res.State {
	case models.StateResolved:
		writeJSON(w, http.StatusOK, PostResponse{
			State:              res.State.String(),
			Post:               res.Post,
			ReadingTimeMinutes: readtime.EstimateMinutes(res.Post.Data.Content),
		})
	case models.StateNotFound:
		apierrors.WriteError(w, r, service.ErrNotFound)
	case models.StateFailed:
		apierrors.WriteError(w, r, res.Err)
	default:
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusAccepted, PostResponse{State: res.State.String()})
	}
}
