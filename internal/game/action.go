// internal/game/action.go
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ActionKind enumerates the moves a player may request during a turn.
type ActionKind int

const (
	ActionStop ActionKind = iota
	ActionRevealOwnLowest
	ActionRevealOwnHighest
	ActionRevealOtherLowest
	ActionRevealOtherHighest
	ActionRevealCenter
	ActionExchange
	// ActionForfeit ends the turn as a failure; legal only when no reveal is possible.
	ActionForfeit
)

var actionNames = map[ActionKind]string{
	ActionStop:               "stop",
	ActionRevealOwnLowest:    "reveal_own_lowest",
	ActionRevealOwnHighest:   "reveal_own_highest",
	ActionRevealOtherLowest:  "reveal_other_lowest",
	ActionRevealOtherHighest: "reveal_other_highest",
	ActionRevealCenter:       "reveal_center",
	ActionExchange:           "exchange",
	ActionForfeit:            "forfeit",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// IsReveal reports whether the action flips a card.
func (k ActionKind) IsReveal() bool {
	return k >= ActionRevealOwnLowest && k <= ActionRevealCenter
}

// Action is one requested move. Target names the other player for reveal-other and exchange;
// Index is the center index; OwnIndex/MateIndex are the hand positions swapped by an exchange.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Target    uuid.UUID  `json:"target,omitempty"`
	Index     int        `json:"index,omitempty"`
	OwnIndex  int        `json:"ownIndex,omitempty"`
	MateIndex int        `json:"mateIndex,omitempty"`
}

func Stop() Action { return Action{Kind: ActionStop} }
func RevealOwnLowest() Action { return Action{Kind: ActionRevealOwnLowest} }
func RevealOwnHighest() Action { return Action{Kind: ActionRevealOwnHighest} }
func Forfeit() Action { return Action{Kind: ActionForfeit} }

func RevealOtherLowest(target uuid.UUID) Action {
	return Action{Kind: ActionRevealOtherLowest, Target: target}
}

func RevealOtherHighest(target uuid.UUID) Action {
	return Action{Kind: ActionRevealOtherHighest, Target: target}
}

func RevealCenter(index int) Action {
	return Action{Kind: ActionRevealCenter, Index: index}
}

func Exchange(teammate uuid.UUID, ownIndex, mateIndex int) Action {
	return Action{Kind: ActionExchange, Target: teammate, OwnIndex: ownIndex, MateIndex: mateIndex}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionRevealOtherLowest, ActionRevealOtherHighest:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Target)
	case ActionRevealCenter:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
	case ActionExchange:
		return fmt.Sprintf("%s(%s, %d<->%d)", a.Kind, a.Target, a.OwnIndex, a.MateIndex)
	}
	return a.Kind.String()
}

// ErrRejected is wrapped by every rule violation. A rejected action changes nothing
// and the same player is asked again.
var ErrRejected = errors.New("action rejected")

var (
	ErrStopTooEarly        = fmt.Errorf("%w: stop needs at least 2 reveals this turn", ErrRejected)
	ErrExchangeUsed        = fmt.Errorf("%w: exchange already used this turn", ErrRejected)
	ErrExchangeAfterReveal = fmt.Errorf("%w: exchange must happen before any reveal", ErrRejected)
	ErrExchangeNotAllowed  = fmt.Errorf("%w: exchange is only available in team mode", ErrRejected)
	ErrNotTeammate         = fmt.Errorf("%w: exchange target is not a teammate", ErrRejected)
	ErrExchangeIndex       = fmt.Errorf("%w: exchange index out of range", ErrRejected)
	ErrNoEligibleTarget    = fmt.Errorf("%w: no card to reveal there", ErrRejected)
	ErrAlreadyRevealed     = fmt.Errorf("%w: card is already revealed", ErrRejected)
	ErrCenterUnavailable   = fmt.Errorf("%w: no center pile in team mode", ErrRejected)
	ErrUnknownPlayer       = fmt.Errorf("%w: unknown player", ErrRejected)
	ErrForfeitNotAllowed   = fmt.Errorf("%w: a reveal is still possible", ErrRejected)
	ErrUnknownAction       = fmt.Errorf("%w: unknown action", ErrRejected)
)

// RevealedCard records a card flipped this turn and where it came from.
// Owner is nil for cards revealed from the center pile.
type RevealedCard struct {
	Card        *Card
	Owner       *Player
	SourceIndex int
}

// PlayerView is the public information about one seat.
type PlayerView struct {
	ID        uuid.UUID
	Name      string
	Kind      PlayerKind
	TeamID    uuid.UUID
	HandSize  int
	TrioCount int
	// Visible holds the hand positions of cards currently face up, mapped to their values.
	Visible map[int]int
}

// CenterSlot is one position of the center pile as others can see it.
// Value is zero while the card is hidden.
type CenterSlot struct {
	Index   int
	Visible bool
	Value   int
}

// Options lists every action the engine would currently accept from the viewer.
type Options struct {
	CanStop         bool
	OwnLowest       bool
	OwnHighest      bool
	OtherLowest     []uuid.UUID
	OtherHighest    []uuid.UUID
	CenterIndexes   []int
	ExchangeTargets []uuid.UUID
	CanForfeit      bool
}

// AnyReveal reports whether at least one reveal action is legal.
func (o Options) AnyReveal() bool {
	return o.OwnLowest || o.OwnHighest || len(o.OtherLowest) > 0 ||
		len(o.OtherHighest) > 0 || len(o.CenterIndexes) > 0
}

// View is everything the acting player is allowed to know when deciding.
type View struct {
	MatchID      uuid.UUID
	Mode         Mode
	Self         PlayerView
	Hand         []int // own hand values, ascending
	Players      []PlayerView
	Center       []CenterSlot
	Revealed     []int // values revealed this turn, in order
	TargetValue  int   // zero before the first reveal
	ExchangeUsed bool
	Options      Options
}

// Player looks up a seat in the view by id.
func (v View) Player(id uuid.UUID) (PlayerView, bool) {
	for _, pv := range v.Players {
		if pv.ID == id {
			return pv, true
		}
	}
	return PlayerView{}, false
}
