package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для Redis-реализации:
// — поднимают реальный Redis через testcontainers-go;
// — прогоняют общий контракт Store и проверяют TTL и префикс ключей.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const image = "docker.io/redis:7-alpine"

	req := tc.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting redis container with image=%q", image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestIntegration_Redis_Contract(t *testing.T) {
	url := startRedis(t)

	r, err := NewRedis(context.Background(), url, "test:")
	require.NoError(t, err)
	defer r.Close()

	exerciseStore(t, r)
}

func TestIntegration_Redis_TTLAndPrefix(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	r, err := NewRedis(ctx, url, "")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Set(ctx, "listing:first", &Entry{StoredAt: time.Now(), Payload: []byte("x")}, 2*time.Second))

	n, err := r.rdb.Exists(ctx, "blog:listing:first").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.Eventually(t, func() bool {
		_, ok, err := r.Get(ctx, "listing:first")
		return err == nil && !ok
	}, 10*time.Second, 200*time.Millisecond)
}

func TestNewRedis_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedis(context.Background(), "not-a-redis-url", "")
	require.Error(t, err)
}
