package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis — Store поверх Redis Hash.
// Поля: at (unix nano), nf (0/1), body (payload).
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт клиент из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "blog:".
func NewRedis(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	const op = "cache.NewRedis"

	if prefix == "" {
		prefix = "blog:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse_url: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (c *Redis) key(k string) string { return c.prefix + k }

func (c *Redis) Get(ctx context.Context, key string) (*Entry, bool, error) {
	const op = "cache.Redis.Get"

	m, err := c.rdb.HGetAll(ctx, c.key(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	at, err := strconv.ParseInt(m["at"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("%s: bad at field: %w", op, err)
	}

	return &Entry{
		StoredAt: time.Unix(0, at).UTC(),
		NotFound: m["nf"] == "1",
		Payload:  []byte(m["body"]),
	}, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, e *Entry, ttl time.Duration) error {
	const op = "cache.Redis.Set"

	kv := map[string]any{
		"at":   strconv.FormatInt(e.StoredAt.UnixNano(), 10),
		"nf":   boolTo01(e.NotFound),
		"body": e.Payload,
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, c.key(key))
	pipe.HSet(ctx, c.key(key), kv)
	if ttl > 0 {
		pipe.Expire(ctx, c.key(key), ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("cache.Redis.Delete: %w", err)
	}

	return nil
}

func (c *Redis) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
