// cache — хранилище отрендеренных данных страниц (ответов CMS) с TTL.
//
// Свежесть записи определяет вызывающий по Entry.StoredAt; TTL хранилища —
// только срок удержания устаревшей записи для stale-while-revalidate.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed — хранилище уже закрыто.
var ErrClosed = errors.New("cache closed")

// Entry — одна запись кэша.
type Entry struct {
	// StoredAt — момент последней успешной выборки из CMS.
	StoredAt time.Time
	// NotFound — CMS подтвердила отсутствие документа; Payload пуст.
	NotFound bool
	// Payload — сериализованный JSON модели.
	Payload []byte
}

// Age — возраст записи относительно now.
func (e *Entry) Age(now time.Time) time.Duration { return now.Sub(e.StoredAt) }

// Store — минимальный контракт кэша.
type Store interface {
	// Get возвращает запись и признак её наличия.
	Get(ctx context.Context, key string) (*Entry, bool, error)
	// Set сохраняет запись с TTL удержания.
	Set(ctx context.Context, key string, e *Entry, ttl time.Duration) error
	// Delete удаляет запись; отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
	// Close освобождает ресурсы.
	Close() error
}
