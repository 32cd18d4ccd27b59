// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list holding published match actions.
const DefaultQueueName = "trios_actions"

// Config is the process configuration read from the environment.
// Empty DatabaseURL or RedisAddr disable the matching collaborator.
type Config struct {
	Env         string
	LogLevel    logrus.Level
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	QueueName  string
	BatchSize  int
	FlushDelay time.Duration
}

// Load reads the configuration. Call after godotenv/autoload has populated the environment.
func Load() Config {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	return Config{
		Env:         getEnv("TRIOS_ENV", "development"),
		LogLevel:    level,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
		BatchSize:   getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay:  time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
	}
}

// IsProduction reports whether TRIOS_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// NewLogger builds the root logger: JSON in production, text otherwise.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// getEnv reads an environment variable or returns def.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else returns def.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
