// internal/historian/historian.go
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jason-s-yu/trios/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Sink stores a batch of actions. *database.Store implements it.
type Sink interface {
	InsertMatchActions(ctx context.Context, actions []models.MatchAction) error
}

// Popper is the slice of the Redis client the historian reads with.
type Popper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Options tune batching. Zero values fall back to the defaults below.
type Options struct {
	QueueName   string
	BatchSize   int
	FlushDelay  time.Duration
	PollTimeout time.Duration
}

const (
	defaultBatchSize   = 20
	defaultFlushDelay  = 500 * time.Millisecond
	defaultPollTimeout = 3 * time.Second
)

// Service drains the match action queue into a Sink in batches. A batch is written when
// it reaches BatchSize, on every FlushDelay tick, and once more on shutdown.
type Service struct {
	rdb    Popper
	sink   Sink
	opts   Options
	logger *logrus.Entry

	batchMu sync.Mutex
	batch   []models.MatchAction
	flushed int
}

func New(rdb Popper, sink Sink, opts Options, logger *logrus.Entry) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = defaultFlushDelay
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		rdb:    rdb,
		sink:   sink,
		opts:   opts,
		logger: logger.WithField("queue", opts.QueueName),
		batch:  make([]models.MatchAction, 0, opts.BatchSize),
	}
}

// Run pops records until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()

	s.logger.Info("historian started")
	defer func() {
		s.flush(context.WithoutCancel(ctx))
		s.logger.Info("historian stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx)
		default:
			res, err := s.rdb.BLPop(ctx, s.opts.PollTimeout, s.opts.QueueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					s.logger.WithError(err).Error("BLPop failed")
				}
				continue
			}
			// res[0] is the queue name and res[1] the payload.
			if len(res) < 2 {
				continue
			}
			s.handle(ctx, res[1])
		}
	}
}

func (s *Service) handle(ctx context.Context, payload string) {
	var record models.MatchAction
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		s.logger.WithError(err).Warn("invalid action record")
		return
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, record)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		s.flush(ctx)
	}
}

// flush writes the pending batch. A failed batch is logged and dropped.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]models.MatchAction, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.sink.InsertMatchActions(ctx, pending); err != nil {
		s.logger.WithError(err).WithField("count", len(pending)).Error("failed to flush actions")
		return
	}

	s.batchMu.Lock()
	s.flushed += len(pending)
	s.batchMu.Unlock()
	s.logger.WithField("count", len(pending)).Debug("flushed actions")
}

// Flushed is the number of actions written so far.
func (s *Service) Flushed() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return s.flushed
}
