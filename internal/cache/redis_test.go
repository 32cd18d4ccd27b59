// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/trios/internal/game"
	"github.com/jason-s-yu/trios/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionFromEvent(t *testing.T) {
	matchID, actor, owner, card := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	ev := game.GameEvent{
		Type:    game.EventPlayerReveal,
		User:    &game.EventUser{ID: actor, Name: "ana"},
		Card:    &game.EventCard{ID: card, Value: 7, Owner: &game.EventUser{ID: owner}},
		Payload: map[string]interface{}{"first": true},
	}

	rec := ActionFromEvent(matchID, 4, ev)
	assert.Equal(t, matchID, rec.MatchID)
	assert.Equal(t, 4, rec.ActionIndex)
	assert.Equal(t, actor, rec.ActorID)
	assert.Equal(t, "player_reveal", rec.ActionType)
	assert.Equal(t, true, rec.Payload["first"])
	assert.Equal(t, 7, rec.Payload["card_value"])
	assert.Equal(t, owner.String(), rec.Payload["owner_id"])
	assert.Positive(t, rec.Timestamp)

	_, touched := ev.Payload["card_value"]
	assert.False(t, touched, "event payload is copied, not mutated")
}

func TestActionFromDrawEventHasNoActor(t *testing.T) {
	rec := ActionFromEvent(uuid.New(), 0, game.GameEvent{Type: game.EventGameEnd, Payload: map[string]interface{}{"draw": true}})
	assert.Equal(t, uuid.Nil, rec.ActorID)
	assert.Equal(t, true, rec.Payload["draw"])
}

func TestBroadcasterPublishesInOrder(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := Connect(ctx, addr, 0)
	require.NoError(t, err)
	defer rdb.Close()

	name := "trios_test_" + uuid.NewString()
	defer rdb.Del(ctx, name)
	q := NewActionQueue(rdb, name)

	l, _ := test.NewNullLogger()
	matchID := uuid.New()
	broadcast := q.Broadcaster(ctx, matchID, logrus.NewEntry(l))
	broadcast(game.GameEvent{Type: game.EventGamePlayerTurn, User: &game.EventUser{ID: uuid.New()}})
	broadcast(game.GameEvent{Type: game.EventTurnFailed, User: &game.EventUser{ID: uuid.New()}})

	items, err := rdb.LRange(ctx, name, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, items, 2)
	for i, raw := range items {
		var rec models.MatchAction
		require.NoError(t, json.Unmarshal([]byte(raw), &rec))
		assert.Equal(t, matchID, rec.MatchID)
		assert.Equal(t, i, rec.ActionIndex)
	}
}
