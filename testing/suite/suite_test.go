package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisImage(t *testing.T) {
	t.Run("Defaults to alpine", func(t *testing.T) {
		t.Setenv(RedisImageEnv, "")

		repository, tag := redisImage()

		assert.Equal(t, "redis", repository)
		assert.Equal(t, "alpine", tag)
	})

	t.Run("Reads the override", func(t *testing.T) {
		t.Setenv(RedisImageEnv, "redis:7-alpine")

		repository, tag := redisImage()

		assert.Equal(t, "redis", repository)
		assert.Equal(t, "7-alpine", tag)
	})

	t.Run("Untagged image means latest", func(t *testing.T) {
		t.Setenv(RedisImageEnv, "valkey/valkey")

		repository, tag := redisImage()

		assert.Equal(t, "valkey/valkey", repository)
		assert.Equal(t, "latest", tag)
	})
}
