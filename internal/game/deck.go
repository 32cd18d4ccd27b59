// internal/game/deck.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var (
	ErrEmptyDeck       = errors.New("deck is empty")
	ErrIndexOutOfRange = errors.New("deck index out of range")
	ErrCardNotFound    = errors.New("card not found in deck")
)

// Deck is an ordered, mutable pile of cards: a hand, the center pile, or a won-trios pile.
type Deck struct {
	cards []*Card
}

// NewDeck returns a deck holding the given cards in order.
func NewDeck(cards ...*Card) *Deck {
	d := &Deck{cards: make([]*Card, 0, len(cards))}
	d.cards = append(d.cards, cards...)
	return d
}

// Add appends a card to the end of the deck.
func (d *Deck) Add(c *Card) {
	d.cards = append(d.cards, c)
}

// RemoveAt removes and returns the card at index i.
func (d *Deck) RemoveAt(i int) (*Card, error) {
	if i < 0 || i >= len(d.cards) {
		return nil, fmt.Errorf("remove at %d of %d: %w", i, len(d.cards), ErrIndexOutOfRange)
	}
	c := d.cards[i]
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return c, nil
}

// Remove removes the given physical card (pointer identity) from the deck.
func (d *Deck) Remove(c *Card) (*Card, error) {
	i := d.IndexOf(c)
	if i < 0 {
		return nil, fmt.Errorf("remove card %s: %w", c.ID, ErrCardNotFound)
	}
	return d.RemoveAt(i)
}

// IndexOf returns the position of the physical card, or -1.
func (d *Deck) IndexOf(c *Card) int {
	for i, dc := range d.cards {
		if dc == c {
			return i
		}
	}
	return -1
}

// At returns the card at index i.
func (d *Deck) At(i int) (*Card, error) {
	if i < 0 || i >= len(d.cards) {
		return nil, fmt.Errorf("card at %d of %d: %w", i, len(d.cards), ErrIndexOutOfRange)
	}
	return d.cards[i], nil
}

// Shuffle applies a uniform random permutation using r.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Sort orders the deck by ascending value. Equal values keep their relative order.
func (d *Deck) Sort() {
	sort.SliceStable(d.cards, func(i, j int) bool {
		return d.cards[i].value < d.cards[j].value
	})
}

// Lowest sorts the deck and returns its first card with that card's index.
func (d *Deck) Lowest() (*Card, int, error) {
	if len(d.cards) == 0 {
		return nil, -1, ErrEmptyDeck
	}
	d.Sort()
	return d.cards[0], 0, nil
}

// Highest sorts the deck and returns its last card with that card's index.
func (d *Deck) Highest() (*Card, int, error) {
	if len(d.cards) == 0 {
		return nil, -1, ErrEmptyDeck
	}
	d.Sort()
	last := len(d.cards) - 1
	return d.cards[last], last, nil
}

func (d *Deck) Size() int { return len(d.cards) }
func (d *Deck) IsEmpty() bool { return len(d.cards) == 0 }

// Cards returns a copy of the deck's card slice; the cards themselves are shared.
func (d *Deck) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// CountValue returns how many cards of value v the deck holds.
func (d *Deck) CountValue(v int) int {
	n := 0
	for _, c := range d.cards {
		if c.value == v {
			n++
		}
	}
	return n
}

// takeFront removes the first card. Assumes the deck is not empty.
func (d *Deck) takeFront() *Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}
