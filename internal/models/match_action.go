// internal/models/match_action.go
package models

import "github.com/google/uuid"

// MatchAction is one engine event as queued for the historian.
// ActorID is uuid.Nil for events without an actor (a drawn match).
type MatchAction struct {
	MatchID     uuid.UUID              `json:"match_id"`
	ActionIndex int                    `json:"action_index"`
	ActorID     uuid.UUID              `json:"actor_id"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"action_payload"`
	Timestamp   int64                  `json:"timestamp"`
}
