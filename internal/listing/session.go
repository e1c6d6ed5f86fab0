// listing — состояние страницы списка постов и его постраничная догрузка.
//
// Session хранит упорядоченную последовательность кратких записей и курсор
// следующей страницы. Последовательность только растёт: новые записи
// добавляются в конец, уже показанные не меняются.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/spacetraveling/internal/models"
)

var (
	// ErrInFlight — догрузка уже выполняется для этой сессии.
	ErrInFlight = errors.New("load already in flight")
	// ErrSessionNotFound — сессии нет или она истекла.
	ErrSessionNotFound = errors.New("listing session not found")
)

// Fetcher загружает страницу по URL курсора.
type Fetcher func(ctx context.Context, cursor string) (*models.SummaryPage, error)

// Session — состояние одного просмотра списка.
type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	posts   []models.PostSummary
	cursor  string
	page    int
	loading bool
	lastErr error
	touched time.Time
}

// View — снимок состояния для рендеринга.
type View struct {
	ID      uuid.UUID
	Posts   []models.PostSummary
	HasMore bool
	Page    int
	Loading bool
	Err     error
}

// NewSession собирает сессию из первой страницы.
// nil-страница даёт пустой список без курсора.
func NewSession(first *models.SummaryPage) *Session {
	s := &Session{ID: uuid.New(), page: 1, touched: time.Now()}
	if first == nil {
		return s
	}

	s.posts = append(make([]models.PostSummary, 0, len(first.Results)), first.Results...)
	s.cursor = first.NextPage
	if first.Page > 0 {
		s.page = first.Page
	}

	return s
}

// LoadNext догружает следующую страницу по текущему курсору.
//
// Особенности:
//   - курсора нет -> (0, nil), запрос не выполняется;
//   - параллельный вызов во время загрузки -> ErrInFlight без запроса;
//   - успех: записи добавляются в конец, курсор и номер страницы заменяются
//     значениями из ответа, прошлая ошибка сбрасывается;
//   - ошибка: последовательность и курсор не меняются, ошибка сохраняется
//     и видна в View.Err.
func (s *Session) LoadNext(ctx context.Context, fetch Fetcher) (int, error) {
	const op = "listing.LoadNext"

	s.mu.Lock()
	s.touched = time.Now()
	if s.cursor == "" {
		s.mu.Unlock()
		return 0, nil
	}
	if s.loading {
		s.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", op, ErrInFlight)
	}
	s.loading = true
	cursor := s.cursor
	s.mu.Unlock()

	page, err := fetch(ctx, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.touched = time.Now()

	if err == nil && page == nil {
		err = errors.New("empty page")
	}
	if err != nil {
		s.lastErr = err
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.posts = append(s.posts, page.Results...)
	s.cursor = page.NextPage
	if page.Page > 0 {
		s.page = page.Page
	}
	s.lastErr = nil

	return len(page.Results), nil
}

// View возвращает копию состояния; вызывающий может свободно её менять.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:      s.ID,
		Posts:   append([]models.PostSummary(nil), s.posts...),
		HasMore: s.cursor != "",
		Page:    s.page,
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

// Cursor — текущий URL следующей страницы; "" означает, что страниц больше нет.
func (s *Session) Cursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cursor
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return 0
	}

	return now.Sub(s.touched)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}
