// internal/models/match.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one seat of a finished match.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Human     bool      `json:"human"`
	TeamID    uuid.UUID `json:"team_id"`
	TrioCount int       `json:"trio_count"`
	Winner    bool      `json:"winner"`
}

// MatchSummary is the append-only record written when a match ends.
// WinnerID is uuid.Nil for a drawn match.
type MatchSummary struct {
	MatchID      uuid.UUID     `json:"match_id"`
	Mode         string        `json:"mode"`
	WinnerID     uuid.UUID     `json:"winner_id"`
	WinnerName   string        `json:"winner_name"`
	SevenBonus   bool          `json:"seven_bonus"`
	Turns        int           `json:"turns"`
	Participants []Participant `json:"participants"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// Draw reports whether the match ended without a winner.
func (s MatchSummary) Draw() bool {
	return s.WinnerID == uuid.Nil
}

// HumanWinners returns the human participants credited with the win.
func (s MatchSummary) HumanWinners() []Participant {
	var out []Participant
	for _, p := range s.Participants {
		if p.Winner && p.Human {
			out = append(out, p)
		}
	}
	return out
}
