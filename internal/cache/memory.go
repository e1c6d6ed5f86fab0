package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// DefaultMemoryEntries — ёмкость NewMemory.
const DefaultMemoryEntries = 4096

// Memory — Store в памяти процесса с вытеснением давно не читанных записей.
type Memory struct {
	now func() time.Time

	mu     sync.RWMutex
	items  *lru.Cache[string, memItem]
	closed bool
}

type memItem struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemory создаёт кэш ёмкостью DefaultMemoryEntries.
func NewMemory() *Memory {
	m, _ := NewMemorySize(DefaultMemoryEntries)
	return m
}

// NewMemorySize создаёт кэш не более чем на size записей.
func NewMemorySize(size int) (*Memory, error) {
	const op = "cache.NewMemorySize"

	items, err := lru.New[string, memItem](size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Memory{now: time.Now, items: items}, nil
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}

	it, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if m.expired(it) {
		m.items.Remove(key)
		return nil, false, nil
	}

	e := it.entry
	e.Payload = append([]byte(nil), it.entry.Payload...)

	return &e, true, nil
}

// Set сохраняет копию записи; ttl <= 0 -> без срока.
func (m *Memory) Set(_ context.Context, key string, e *Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	it := memItem{entry: *e}
	it.entry.Payload = append([]byte(nil), e.Payload...)
	if ttl > 0 {
		it.expiresAt = m.now().Add(ttl)
	}
	m.items.Add(key, it)

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items.Remove(key)

	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.items.Purge()

	return nil
}

// Len — число записей, включая истёкшие, которые ещё не вычищены Get или Sweep.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.items.Len()
}

func (m *Memory) expired(it memItem) bool {
	return !it.expiresAt.IsZero() && !m.now().Before(it.expiresAt)
}

// Sweep удаляет истёкшие записи и возвращает их число.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, k := range m.items.Keys() {
		if it, ok := m.items.Peek(k); ok && m.expired(it) {
			m.items.Remove(k)
			removed++
		}
	}

	return removed
}

// Run вызывает Sweep раз в interval до отмены ctx.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.From(ctx).Debug("cache_swept", slog.Int("removed", n))
			}
		}
	}
}
