package suite

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
)

// RedisImageEnv overrides the Redis image, e.g. "redis:7-alpine".
const RedisImageEnv = "TICTACTOE_TEST_REDIS_IMAGE"

const (
	defaultRedisImage = "redis:alpine"
	redisPort         = "6379/tcp"

	containerTTL = uint(120)
	startTimeout = 120 * time.Second
)

// Suite is a Redis reachable at Addr for the lifetime of one test.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Addr    string
	Storage *redis.Client
}

// New starts a throwaway Redis container and connects to it through the
// storage package. The test is skipped in short mode or without Docker.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis suite skipped in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pool := dockerPool(t)
	addr := runRedis(t, pool)
	redisStorage := connect(ctx, t, pool, logger, addr)

	require.NoError(t, redisStorage.Connection.FlushDB(ctx).Err(), "could not flush database")

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Addr:    addr,
		Storage: redisStorage.Connection,
	}
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	pool.MaxWait = startTimeout

	return pool
}

// runRedis returns the host address of a fresh container. The container is
// purged on cleanup and hard killed by Docker after containerTTL seconds.
func runRedis(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()

	repository, tag := redisImage()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: repository,
		Tag:        tag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start redis container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	// never returns error
	_ = resource.Expire(containerTTL)

	return resource.GetHostPort(redisPort)
}

// connect retries with backoff until the server inside the container accepts
// connections.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, logger *slog.Logger, addr string) *storage.RedisStorage {
	t.Helper()

	var redisStorage *storage.RedisStorage

	err := pool.Retry(func() error {
		var err error
		redisStorage, err = storage.NewRedisStorage(ctx, logger, addr)
		return err
	})
	require.NoError(t, err, "could not connect to redis at %s", addr)

	t.Cleanup(redisStorage.Close)

	return redisStorage
}

func redisImage() (string, string) {
	image := os.Getenv(RedisImageEnv)
	if image == "" {
		image = defaultRedisImage
	}

	repository, tag, found := strings.Cut(image, ":")
	if !found {
		tag = "latest"
	}

	return repository, tag
}
