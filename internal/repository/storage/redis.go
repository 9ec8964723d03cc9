package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	Connection *redis.Client
	logger     *slog.Logger
}

// NewRedisStorage connects and pings once; the server refuses to start
// without a reachable Redis.
func NewRedisStorage(ctx context.Context, logger *slog.Logger, addr string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis", "addr", addr)

	return &RedisStorage{Connection: conn, logger: logger}, nil
}

func (that *RedisStorage) Close() {
	if err := that.Connection.Close(); err != nil {
		that.logger.Error("failed to close redis connection", "error", err)
	}
}
