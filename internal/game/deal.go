// internal/game/deal.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidConfiguration is returned when a match cannot be built with the given seats.
var ErrInvalidConfiguration = errors.New("invalid match configuration")

// Mode selects solo play (shared center pile) or fixed 2-player teams.
type Mode int

const (
	ModeSolo Mode = iota
	ModeTeam
)

func (m Mode) String() string {
	switch m {
	case ModeSolo:
		return "solo"
	case ModeTeam:
		return "team"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps "solo"/"team" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "solo":
		return ModeSolo, nil
	case "team", "teams":
		return ModeTeam, nil
	}
	return 0, fmt.Errorf("unknown mode %q: %w", s, ErrInvalidConfiguration)
}

// DealCounts is how many cards each player and the center receive.
type DealCounts struct {
	PerPlayer int
	Center    int
}

var dealTable = map[Mode]map[int]DealCounts{
	ModeSolo: {
		3: {PerPlayer: 9, Center: 9},
		4: {PerPlayer: 7, Center: 8},
		5: {PerPlayer: 6, Center: 6},
		6: {PerPlayer: 5, Center: 6},
	},
	ModeTeam: {
		4: {PerPlayer: 9, Center: 0},
		6: {PerPlayer: 6, Center: 0},
	},
}

// DealPolicy returns the deal for n players in the given mode.
func DealPolicy(mode Mode, n int) (DealCounts, error) {
	counts, ok := dealTable[mode][n]
	if !ok {
		return DealCounts{}, fmt.Errorf("%d players in %s mode: %w", n, mode, ErrInvalidConfiguration)
	}
	if counts.PerPlayer*n+counts.Center != CardSetSize {
		return DealCounts{}, fmt.Errorf("deal %+v for %d players does not cover %d cards: %w", counts, n, CardSetSize, ErrInvalidConfiguration)
	}
	return counts, nil
}

// SupportedPlayerCounts lists the player counts the deal table accepts for mode, ascending.
func SupportedPlayerCounts(mode Mode) []int {
	var out []int
	for n := 2; n <= 6; n++ {
		if _, ok := dealTable[mode][n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// deal shuffles set once, hands out counts.PerPlayer cards round-robin, moves the
// remainder into center (nil in team mode) and sorts every hand.
func deal(set *Deck, players []*Player, center *Deck, counts DealCounts, r *rand.Rand) {
	set.Shuffle(r)
	for round := 0; round < counts.PerPlayer; round++ {
		for _, p := range players {
			p.Hand.Add(set.takeFront())
		}
	}
	for i := 0; i < counts.Center; i++ {
		center.Add(set.takeFront())
	}
	for _, p := range players {
		p.Hand.Sort()
	}
}
