// internal/game/events_test.go
package game

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events passed to BroadcastFn.
type mockBroadcaster struct {
	events []GameEvent
}

func (m *mockBroadcaster) fn(ev GameEvent) {
	m.events = append(m.events, ev)
}

func (m *mockBroadcaster) ofType(t GameEventType) []GameEvent {
	var out []GameEvent
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func TestEventNotifierStream(t *testing.T) {
	e, scripts, rec := setupSolo(t, 3)
	mb := &mockBroadcaster{}
	e.notifier = MultiNotifier{rec, EventNotifier{BroadcastFn: mb.fn}}
	arrange(t, e, [][]int{{3, 5}, {3, 8}}, []int{3, 1})
	p1, p2 := e.Players[0], e.Players[1]

	scripts[0].push(Stop(), RevealOwnLowest(), RevealOtherLowest(p2.ID), RevealCenter(0))
	_, err := e.PlayTurn(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, mb.events)
	assert.Equal(t, EventGamePlayerTurn, mb.events[0].Type)
	assert.Equal(t, p1.ID, mb.events[0].User.ID)
	assert.Equal(t, 1, mb.events[0].Payload["turn"])

	rejected := mb.ofType(EventActionRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "stop", rejected[0].Payload["action"])

	reveals := mb.ofType(EventPlayerReveal)
	require.Len(t, reveals, 3)
	assert.Equal(t, "hand", reveals[0].Payload["source"])
	assert.Equal(t, true, reveals[0].Payload["first"])
	assert.Equal(t, p2.ID, reveals[1].Card.Owner.ID)
	assert.Equal(t, "center", reveals[2].Payload["source"])
	assert.Nil(t, reveals[2].Card.Owner)
	for _, ev := range reveals {
		assert.Equal(t, 3, ev.Card.Value)
	}

	trios := mb.ofType(EventTrioAwarded)
	require.Len(t, trios, 1)
	assert.Equal(t, 1, trios[0].Payload["trios"])
	assert.Equal(t, p1.ID.String(), trios[0].Payload["holder"])

	// the recorder saw the same stream
	assert.Len(t, rec.reveals, 3)
	assert.Len(t, rec.rejected, 1)
}

func TestEventNotifierEndEvents(t *testing.T) {
	mb := &mockBroadcaster{}
	n := EventNotifier{BroadcastFn: mb.fn}
	p := NewBot("solo", NewBotPolicy(1))
	team := NewTeam("T", p, NewBot("mate", NewBotPolicy(2)))

	n.OnMatchWon(team)
	n.OnMatchDrawn()
	require.Len(t, mb.events, 2)

	won := mb.events[0]
	assert.Equal(t, EventGameEnd, won.Type)
	assert.Equal(t, team.ID, won.User.ID)
	assert.Len(t, won.Payload["members"], 2)
	assert.Equal(t, false, won.Payload["sevenBonus"])

	assert.Equal(t, true, mb.events[1].Payload["draw"])
	assert.Nil(t, mb.events[1].User)
}

func TestEventNotifierWithoutBroadcastFn(t *testing.T) {
	assert.NotPanics(t, func() {
		EventNotifier{}.OnTurnFailed(NewBot("x", NewBotPolicy(1)))
	})
}

func TestEventToBytes(t *testing.T) {
	p := NewBot("x", NewBotPolicy(1))
	ev := GameEvent{Type: EventTurnFailed, User: &EventUser{ID: p.ID, Name: p.Name}}

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(EventToBytes(ev), &decoded))
	assert.Equal(t, "turn_failed", decoded["type"])
	assert.NotContains(t, decoded, "card")

	bad := GameEvent{Type: EventTurnFailed, Payload: map[string]interface{}{"ch": make(chan int)}}
	assert.Equal(t, []byte("{}"), EventToBytes(bad))
}

func TestLogNotifierWritesEntries(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e, scripts, _ := setupSolo(t, 3)
	e.notifier = LogNotifier{Logger: logrus.NewEntry(logger)}
	arrange(t, e, [][]int{{3, 6}, {5, 8}}, []int{12, 12})

	scripts[0].push(RevealOwnLowest(), RevealOtherLowest(e.Players[1].ID))
	_, err := e.PlayTurn(context.Background())
	require.NoError(t, err)

	var msgs []string
	for _, entry := range hook.AllEntries() {
		msgs = append(msgs, entry.Message)
	}
	assert.Contains(t, msgs, "turn started")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "P1", hook.LastEntry().Data["player"])
}

func TestSetNotifier(t *testing.T) {
	e, scripts, rec := setupSolo(t, 3)
	mb := &mockBroadcaster{}
	e.SetNotifier(EventNotifier{BroadcastFn: mb.fn})

	failTurn(scripts[0])
	_, err := e.PlayTurn(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rec.turns, "old notifier is detached")
	assert.Len(t, mb.ofType(EventTurnFailed), 1)

	e.SetNotifier(nil)
	failTurn(scripts[1])
	_, err = e.PlayTurn(context.Background())
	assert.NoError(t, err)
}
