package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// Store — реестр сессий списка в памяти процесса.
// Сессия удаляется, если к ней не обращались дольше ttl.
type Store struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore создаёт реестр; ttl <= 0 -> 30 минут.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Store{ttl: ttl, sessions: make(map[uuid.UUID]*Session)}
}

// Create регистрирует новую сессию с первой страницей.
func (s *Store) Create(first *models.SummaryPage) *Session {
	sess := NewSession(first)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get возвращает живую сессию и продлевает ей жизнь.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	const op = "listing.Store.Get"

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || sess.idleSince(time.Now()) > s.ttl {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	sess.touch()

	return sess, nil
}

// Len — число зарегистрированных сессий.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Sweep удаляет истёкшие сессии и возвращает их число.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Run периодически чистит реестр до отмены ctx.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				log.From(ctx).Debug("listing_sessions_swept",
					slog.Int("removed", n),
					slog.Int("left", s.Len()),
				)
			}
		}
	}
}
