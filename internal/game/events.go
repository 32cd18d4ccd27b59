// internal/game/events.go
package game

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameEventType names an event in the broadcast stream.
type GameEventType string

const (
	EventGamePlayerTurn GameEventType = "game_player_turn"
	EventPlayerReveal   GameEventType = "player_reveal"
	EventPlayerExchange GameEventType = "player_exchange"
	EventTrioAwarded    GameEventType = "trio_awarded"
	EventTurnFailed     GameEventType = "turn_failed"
	EventActionRejected GameEventType = "action_rejected"
	EventGameEnd        GameEventType = "game_end"
)

// EventUser identifies a player or team inside an event.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard describes a revealed card. Owner is omitted for center cards.
type EventCard struct {
	ID    uuid.UUID  `json:"id"`
	Value int        `json:"value"`
	Owner *EventUser `json:"owner,omitempty"`
}

// GameEvent is the serializable form of a notification.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *EventCard             `json:"card,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// EventNotifier turns notifications into GameEvents delivered through BroadcastFn.
// If BroadcastFn is nil, events are dropped.
type EventNotifier struct {
	BroadcastFn func(ev GameEvent)
}

func (n EventNotifier) fire(ev GameEvent) {
	if n.BroadcastFn != nil {
		n.BroadcastFn(ev)
	}
}

func eventUser(p *Player) *EventUser {
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

func (n EventNotifier) OnTurnStarted(p *Player, turn int) {
	n.fire(GameEvent{
		Type:    EventGamePlayerTurn,
		User:    eventUser(p),
		Payload: map[string]interface{}{"turn": turn},
	})
}

func (n EventNotifier) OnCardRevealed(actor *Player, card *Card, owner *Player, isFirst, isMatch bool, expected int) {
	source := "hand"
	if owner == nil {
		source = "center"
	}
	n.fire(GameEvent{
		Type: EventPlayerReveal,
		User: eventUser(actor),
		Card: &EventCard{ID: card.ID, Value: card.Value(), Owner: eventUser(owner)},
		Payload: map[string]interface{}{
			"source":   source,
			"first":    isFirst,
			"match":    isMatch,
			"expected": expected,
		},
	})
}

func (n EventNotifier) OnCardsExchanged(p, mate *Player) {
	n.fire(GameEvent{
		Type:    EventPlayerExchange,
		User:    eventUser(p),
		Payload: map[string]interface{}{"teammate": mate.ID.String()},
	})
}

func (n EventNotifier) OnTrioAwarded(actor *Player, holder Holder, trios int) {
	n.fire(GameEvent{
		Type: EventTrioAwarded,
		User: eventUser(actor),
		Payload: map[string]interface{}{
			"holder": holder.HolderID().String(),
			"trios":  trios,
		},
	})
}

func (n EventNotifier) OnTurnFailed(p *Player) {
	n.fire(GameEvent{Type: EventTurnFailed, User: eventUser(p)})
}

func (n EventNotifier) OnActionRejected(p *Player, a Action, reason error) {
	n.fire(GameEvent{
		Type: EventActionRejected,
		User: eventUser(p),
		Payload: map[string]interface{}{
			"action":  a.Kind.String(),
			"message": reason.Error(),
		},
	})
}

func (n EventNotifier) OnMatchWon(holder Holder) {
	members := make([]string, 0, len(holder.Members()))
	for _, m := range holder.Members() {
		members = append(members, m.ID.String())
	}
	n.fire(GameEvent{
		Type: EventGameEnd,
		User: &EventUser{ID: holder.HolderID(), Name: holder.HolderName()},
		Payload: map[string]interface{}{
			"trios":      holder.TrioCount(),
			"members":    members,
			"sevenBonus": holder.SevenBonus(),
		},
	})
}

func (n EventNotifier) OnMatchDrawn() {
	n.fire(GameEvent{Type: EventGameEnd, Payload: map[string]interface{}{"draw": true}})
}

// EventToBytes marshals a GameEvent into JSON bytes, returning "{}" on failure.
func EventToBytes(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Warnf("failed to marshal game event %s", ev.Type)
		return []byte("{}")
	}
	return data
}
