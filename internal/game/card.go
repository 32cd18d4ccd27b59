// internal/game/card.go
package game

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	MinCardValue  = 1
	MaxCardValue  = 12
	CopiesOfValue = 3
	CardSetSize   = (MaxCardValue - MinCardValue + 1) * CopiesOfValue // 36

	// BonusValue is the value whose trio grants the seven bonus.
	BonusValue = 7
)

// Card is a single physical card. Its value is fixed at creation; only its visibility changes.
type Card struct {
	ID      uuid.UUID `json:"id"`
	value   int
	Visible bool `json:"visible"`
}

// NewCard creates a hidden card. It panics on a value outside [1,12], which is a programming error.
func NewCard(value int) *Card {
	if value < MinCardValue || value > MaxCardValue {
		panic(fmt.Sprintf("card value %d out of range", value))
	}
	return &Card{ID: uuid.New(), value: value}
}

// Value returns the card's face value.
func (c *Card) Value() int {
	return c.value
}

func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Visible {
		return fmt.Sprintf("[%d]", c.value)
	}
	return fmt.Sprintf("(%d)", c.value)
}

// NewCardSet builds the full match set: three copies of each value 1..12, in value order.
func NewCardSet() *Deck {
	d := NewDeck()
	for v := MinCardValue; v <= MaxCardValue; v++ {
		for i := 0; i < CopiesOfValue; i++ {
			d.Add(NewCard(v))
		}
	}
	return d
}

// IsValidTrio reports whether exactly three cards of one value were revealed.
func IsValidTrio(revealed []RevealedCard) bool {
	if len(revealed) != 3 {
		return false
	}
	v := revealed[0].Card.Value()
	return revealed[1].Card.Value() == v && revealed[2].Card.Value() == v
}
