// cmd/historian/main.go is an asynchronous historian service that pops match actions from a
// Redis queue and persists them to PostgreSQL in batches.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jason-s-yu/trios/internal/cache"
	"github.com/jason-s-yu/trios/internal/config"
	"github.com/jason-s-yu/trios/internal/database"
	"github.com/jason-s-yu/trios/internal/historian"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()
	entry := logrus.NewEntry(logger).WithField("service", "trios-historian")

	if cfg.DatabaseURL == "" {
		entry.Fatal("DATABASE_URL is required")
	}
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Connect(ctx, cfg.DatabaseURL, entry)
	if err != nil {
		entry.WithError(err).Fatal("database unavailable")
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		entry.WithError(err).Fatal("schema setup failed")
	}

	rdb, err := cache.Connect(ctx, redisAddr, cfg.RedisDB)
	if err != nil {
		entry.WithError(err).Fatal("redis unavailable")
	}
	defer rdb.Close()

	svc := historian.New(rdb, store, historian.Options{
		QueueName:  cfg.QueueName,
		BatchSize:  cfg.BatchSize,
		FlushDelay: cfg.FlushDelay,
	}, entry)
	svc.Run(ctx)
	entry.WithField("flushed", svc.Flushed()).Info("historian shutdown complete")
}
