// internal/game/team.go
package game

import "github.com/google/uuid"

// TeamSize is the only supported team size.
const TeamSize = 2

// Holder is the unit that accumulates trios and is checked for the win:
// a Player in solo matches, a Team in team matches.
type Holder interface {
	HolderID() uuid.UUID
	HolderName() string
	TrioCount() int
	SevenBonus() bool
	Members() []*Player
}

// Team is an ordered pair of players sharing a TeamID.
type Team struct {
	ID      uuid.UUID
	Name    string
	Players []*Player
}

// NewTeam groups players under a fresh team id.
func NewTeam(name string, players ...*Player) *Team {
	t := &Team{ID: uuid.New(), Name: name, Players: players}
	for _, p := range players {
		p.TeamID = t.ID
	}
	return t
}

// TrioCount sums the members' trios.
func (t *Team) TrioCount() int {
	n := 0
	for _, p := range t.Players {
		n += p.TrioCount()
	}
	return n
}

// HasSevenTrio reports whether any member holds the trio of sevens.
func (t *Team) HasSevenTrio() bool {
	for _, p := range t.Players {
		if p.HasSevenTrio() {
			return true
		}
	}
	return false
}

// Teammate returns the other member of p's team, or nil.
func (t *Team) Teammate(p *Player) *Player {
	for _, m := range t.Players {
		if m != p {
			return m
		}
	}
	return nil
}

func (t *Team) HolderID() uuid.UUID { return t.ID }
func (t *Team) HolderName() string { return t.Name }
func (t *Team) Members() []*Player { return t.Players }
func (t *Team) SevenBonus() bool { return t.HasSevenTrio() }
