// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TRIOS_ENV", "LOG_LEVEL", "DATABASE_URL", "REDIS_ADDR", "REDIS_DB",
		"HISTORIAN_QUEUE_NAME", "HISTORIAN_BATCH_SIZE", "HISTORIAN_FLUSH_MS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Zero(t, cfg.RedisDB)
	assert.Equal(t, DefaultQueueName, cfg.QueueName)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushDelay)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRIOS_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://trios@localhost/trios")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("HISTORIAN_QUEUE_NAME", "q")
	t.Setenv("HISTORIAN_BATCH_SIZE", "5")
	t.Setenv("HISTORIAN_FLUSH_MS", "50")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "postgres://trios@localhost/trios", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "q", cfg.QueueName)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 50*time.Millisecond, cfg.FlushDelay)

	_, isJSON := cfg.NewLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("HISTORIAN_BATCH_SIZE", "")

	cfg := Load()
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Zero(t, cfg.RedisDB)
	assert.Equal(t, 20, cfg.BatchSize)
}
