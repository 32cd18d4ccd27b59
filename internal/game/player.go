// internal/game/player.go
package game

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// humanNamespace scopes name-derived player ids.
var humanNamespace = uuid.MustParse("6f1c2a4e-93b7-4d0e-8a51-7c3e9b2d5f10")

// PlayerKind tags the decision strategy behind a seat.
type PlayerKind int

const (
	KindHuman PlayerKind = iota
	KindBot
)

func (k PlayerKind) String() string {
	if k == KindBot {
		return "bot"
	}
	return "human"
}

// ActionProvider supplies the next action for the player whose turn it is.
// Decide may block (human input); a returned error aborts the turn and discards the match.
type ActionProvider interface {
	Decide(ctx context.Context, view View) (Action, error)
}

// ActionProviderFunc adapts a plain function to ActionProvider.
type ActionProviderFunc func(ctx context.Context, view View) (Action, error)

func (f ActionProviderFunc) Decide(ctx context.Context, view View) (Action, error) {
	return f(ctx, view)
}

// Player owns a sorted hand and a pile of won trios.
type Player struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Kind     PlayerKind `json:"kind"`
	Hand     *Deck      `json:"-"`
	WonTrios *Deck      `json:"-"`

	// TeamID is uuid.Nil in solo matches.
	TeamID uuid.UUID `json:"teamId"`

	provider ActionProvider
}

// NewHuman creates a human seat whose decisions come from an external provider.
func NewHuman(name string, provider ActionProvider) *Player {
	return newPlayer(name, KindHuman, provider)
}

// HumanID derives a stable id from a display name. Names are compared case-insensitively,
// so "Ana" and "ana " are the same person across matches.
func HumanID(name string) uuid.UUID {
	return uuid.NewSHA1(humanNamespace, []byte(strings.ToLower(strings.TrimSpace(name))))
}

// NewHumanWithID creates a human seat with a caller-chosen id, typically HumanID(name).
func NewHumanWithID(id uuid.UUID, name string, provider ActionProvider) *Player {
	p := newPlayer(name, KindHuman, provider)
	p.ID = id
	return p
}

// NewBot creates a bot seat driven by policy.
func NewBot(name string, policy *BotPolicy) *Player {
	return newPlayer(name, KindBot, policy)
}

func newPlayer(name string, kind PlayerKind, provider ActionProvider) *Player {
	return &Player{
		ID:       uuid.New(),
		Name:     name,
		Kind:     kind,
		Hand:     NewDeck(),
		WonTrios: NewDeck(),
		provider: provider,
	}
}

// Decide asks this seat's provider for its next action.
func (p *Player) Decide(ctx context.Context, view View) (Action, error) {
	return p.provider.Decide(ctx, view)
}

func (p *Player) IsBot() bool { return p.Kind == KindBot }

// Score is the number of cards won.
func (p *Player) Score() int { return p.WonTrios.Size() }

// TrioCount is the number of trios won.
func (p *Player) TrioCount() int { return p.WonTrios.Size() / 3 }

// HasSevenTrio reports whether the three sevens sit in this player's won pile.
func (p *Player) HasSevenTrio() bool {
	return p.WonTrios.CountValue(BonusValue) == CopiesOfValue
}

// addToHand inserts a card and restores sorted order.
func (p *Player) addToHand(c *Card) {
	p.Hand.Add(c)
	p.Hand.Sort()
}

// Holder interface.
func (p *Player) HolderID() uuid.UUID { return p.ID }
func (p *Player) HolderName() string { return p.Name }
func (p *Player) Members() []*Player { return []*Player{p} }
func (p *Player) SevenBonus() bool { return p.HasSevenTrio() }
func (p *Player) String() string { return p.Name }
