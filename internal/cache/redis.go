// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/trios/internal/game"
	"github.com/jason-s-yu/trios/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Connect creates a Redis client for addr/db and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// ActionQueue is the Redis list the historian drains.
type ActionQueue struct {
	rdb  redis.Cmdable
	name string
}

func NewActionQueue(rdb redis.Cmdable, name string) *ActionQueue {
	return &ActionQueue{rdb: rdb, name: name}
}

// Name returns the Redis key of the list.
func (q *ActionQueue) Name() string { return q.name }

// Publish serializes the record to JSON and pushes it onto the queue.
func (q *ActionQueue) Publish(ctx context.Context, record models.MatchAction) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchAction: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Broadcaster returns a BroadcastFn for game.EventNotifier that publishes every event of one
// match with increasing action indexes. Publish failures are logged and dropped so a Redis
// outage never stalls the match.
func (q *ActionQueue) Broadcaster(ctx context.Context, matchID uuid.UUID, logger *logrus.Entry) func(game.GameEvent) {
	var (
		mu    sync.Mutex
		index int
	)
	return func(ev game.GameEvent) {
		mu.Lock()
		rec := ActionFromEvent(matchID, index, ev)
		index++
		mu.Unlock()

		if err := q.Publish(ctx, rec); err != nil {
			logger.WithError(err).WithField("action_type", rec.ActionType).Warn("dropping match action")
		}
	}
}

// ActionFromEvent flattens a game event into a historian record.
func ActionFromEvent(matchID uuid.UUID, index int, ev game.GameEvent) models.MatchAction {
	rec := models.MatchAction{
		MatchID:     matchID,
		ActionIndex: index,
		ActionType:  string(ev.Type),
		Payload:     map[string]interface{}{},
		Timestamp:   time.Now().UnixMilli(),
	}
	if ev.User != nil {
		rec.ActorID = ev.User.ID
	}
	for k, v := range ev.Payload {
		rec.Payload[k] = v
	}
	if ev.Card != nil {
		rec.Payload["card_id"] = ev.Card.ID.String()
		rec.Payload["card_value"] = ev.Card.Value
		if ev.Card.Owner != nil {
			rec.Payload["owner_id"] = ev.Card.Owner.ID.String()
		}
	}
	return rec
}
