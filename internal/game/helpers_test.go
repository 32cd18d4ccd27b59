// internal/game/helpers_test.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var errScriptExhausted = errors.New("script exhausted")

// scripted replays a fixed list of actions, recording every view it was shown.
type scripted struct {
	actions []Action
	views   []View
}

func (s *scripted) Decide(_ context.Context, v View) (Action, error) {
	s.views = append(s.views, v)
	if len(s.actions) == 0 {
		return Action{}, errScriptExhausted
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *scripted) push(actions ...Action) {
	s.actions = append(s.actions, actions...)
}

// recorder collects notifications instead of broadcasting them.
type recorder struct {
	NopNotifier
	mu        sync.Mutex
	reveals   []revealCall
	trios     []int
	failed    int
	rejected  []error
	won       []Holder
	drawn     int
	exchanges int
	turns     int
}

type revealCall struct {
	value    int
	owner    *Player
	first    bool
	match    bool
	expected int
}

func (r *recorder) OnTurnStarted(*Player, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns++
}

func (r *recorder) OnCardRevealed(_ *Player, c *Card, owner *Player, first, match bool, expected int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reveals = append(r.reveals, revealCall{c.Value(), owner, first, match, expected})
}

func (r *recorder) OnCardsExchanged(*Player, *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges++
}

func (r *recorder) OnTrioAwarded(_ *Player, _ Holder, trios int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trios = append(r.trios, trios)
}

func (r *recorder) OnTurnFailed(*Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *recorder) OnActionRejected(_ *Player, _ Action, reason error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

func (r *recorder) OnMatchWon(h Holder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.won = append(r.won, h)
}

func (r *recorder) OnMatchDrawn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn++
}

func quietLogger() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

func testConfig(n Notifier) Config {
	return Config{
		Notifier: n,
		Logger:   quietLogger(),
		Rand:     rand.New(rand.NewSource(7)),
	}
}

// setupSolo builds a solo match of n scripted humans.
func setupSolo(t *testing.T, n int) (*Engine, []*scripted, *recorder) {
	t.Helper()
	rec := &recorder{}
	scripts := make([]*scripted, n)
	players := make([]*Player, n)
	for i := range players {
		scripts[i] = &scripted{}
		players[i] = NewHuman(fmt.Sprintf("P%d", i+1), scripts[i])
	}
	e, err := NewSoloMatch(players, testConfig(rec))
	require.NoError(t, err)
	return e, scripts, rec
}

// setupTeams builds a team match of scripted humans; teams are named A, B, C.
func setupTeams(t *testing.T, teamCount int) (*Engine, map[string]*scripted, *recorder) {
	t.Helper()
	rec := &recorder{}
	scripts := map[string]*scripted{}
	var teams []*Team
	for i := 0; i < teamCount; i++ {
		name := string(rune('A' + i))
		var members []*Player
		for slot := 0; slot < TeamSize; slot++ {
			pname := fmt.Sprintf("%s%d", name, slot)
			scripts[pname] = &scripted{}
			members = append(members, NewHuman(pname, scripts[pname]))
		}
		teams = append(teams, NewTeam(name, members...))
	}
	e, err := NewTeamMatch(teams, testConfig(rec))
	require.NoError(t, err)
	return e, scripts, rec
}

// allCards gathers every card of the match wherever it lies.
func allCards(e *Engine) []*Card {
	var out []*Card
	if e.Center != nil {
		out = append(out, e.Center.cards...)
	}
	for _, p := range e.Players {
		out = append(out, p.Hand.cards...)
		out = append(out, p.WonTrios.cards...)
	}
	return out
}

// requireConservation checks the 3-of-each-value invariant over the whole match.
func requireConservation(t *testing.T, e *Engine) {
	t.Helper()
	cards := allCards(e)
	require.Len(t, cards, CardSetSize)
	counts := map[int]int{}
	seen := map[*Card]bool{}
	for _, c := range cards {
		require.False(t, seen[c], "card %s appears twice", c.ID)
		seen[c] = true
		counts[c.Value()]++
	}
	for v := MinCardValue; v <= MaxCardValue; v++ {
		require.Equal(t, CopiesOfValue, counts[v], "value %d", v)
	}
}

// arrange redistributes the match's own cards so each hand and the center hold the
// given values. Values not listed stay nowhere, so callers list what they need and
// the remaining cards are dealt to the last hand.
func arrange(t *testing.T, e *Engine, hands [][]int, center []int) {
	t.Helper()
	pool := map[int][]*Card{}
	for _, c := range allCards(e) {
		c.Visible = false
		pool[c.Value()] = append(pool[c.Value()], c)
	}
	take := func(v int) *Card {
		cs := pool[v]
		require.NotEmpty(t, cs, "no card of value %d left", v)
		pool[v] = cs[1:]
		return cs[0]
	}
	for _, p := range e.Players {
		p.Hand = NewDeck()
		p.WonTrios = NewDeck()
	}
	if e.Center != nil {
		e.Center = NewDeck()
		for _, v := range center {
			e.Center.Add(take(v))
		}
	}
	for i, values := range hands {
		for _, v := range values {
			e.Players[i].Hand.Add(take(v))
		}
	}
	last := e.Players[len(e.Players)-1]
	for v := MinCardValue; v <= MaxCardValue; v++ {
		for len(pool[v]) > 0 {
			last.Hand.Add(take(v))
		}
	}
	for _, p := range e.Players {
		p.Hand.Sort()
	}
}

func values(d *Deck) []int {
	out := make([]int, 0, d.Size())
	for _, c := range d.cards {
		out = append(out, c.Value())
	}
	return out
}
