// internal/console/provider.go
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/trios/internal/game"
	"github.com/pterm/pterm"
)

// HumanProvider is a game.ActionProvider for a person at the terminal. It only offers the
// actions the view lists as legal.
type HumanProvider struct {
	prompt Prompter
	out    io.Writer
}

func NewHumanProvider(prompt Prompter, out io.Writer) *HumanProvider {
	return &HumanProvider{prompt: prompt, out: out}
}

// Choice is one menu entry. Exchange entries only carry the teammate; the hand positions
// are asked for after the entry is picked.
type Choice struct {
	Label  string
	Action game.Action
}

func (h *HumanProvider) Decide(ctx context.Context, v game.View) (game.Action, error) {
	RenderView(h.out, v)

	choices := Choices(v)
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	picked, err := h.prompt.Select(ctx, pterm.Sprintf("%s, your move", v.Self.Name), labels)
	if err != nil {
		return game.Action{}, err
	}
	for _, c := range choices {
		if c.Label != picked {
			continue
		}
		if c.Action.Kind == game.ActionExchange {
			return h.exchange(ctx, v, c.Action.Target)
		}
		return c.Action, nil
	}
	return game.Action{}, fmt.Errorf("unknown choice %q", picked)
}

func (h *HumanProvider) exchange(ctx context.Context, v game.View, mateID uuid.UUID) (game.Action, error) {
	mate, ok := v.Player(mateID)
	if !ok {
		return game.Action{}, fmt.Errorf("teammate %s not in view", mateID)
	}

	own := make([]string, len(v.Hand))
	for i, val := range v.Hand {
		own[i] = fmt.Sprintf("#%d (%d)", i+1, val)
	}
	give, err := h.prompt.Select(ctx, "Card to give", own)
	if err != nil {
		return game.Action{}, err
	}

	theirs := make([]string, mate.HandSize)
	for i := range theirs {
		theirs[i] = fmt.Sprintf("#%d", i+1)
	}
	take, err := h.prompt.Select(ctx, pterm.Sprintf("Card to take from %s", mate.Name), theirs)
	if err != nil {
		return game.Action{}, err
	}
	return game.Exchange(mateID, position(give), position(take)), nil
}

// position parses "#3 ..." into index 2; anything else gives -1, which the engine rejects.
func position(label string) int {
	field := strings.Fields(label)
	if len(field) == 0 {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(field[0], "#"))
	if err != nil {
		return -1
	}
	return n - 1
}

// Choices lists the legal actions of a view with menu labels.
func Choices(v game.View) []Choice {
	o := v.Options
	name := func(id uuid.UUID) string {
		if pv, ok := v.Player(id); ok {
			return pv.Name
		}
		return id.String()
	}

	var out []Choice
	for _, id := range o.ExchangeTargets {
		out = append(out, Choice{"Exchange a card with " + name(id), game.Action{Kind: game.ActionExchange, Target: id}})
	}
	if o.OwnLowest {
		out = append(out, Choice{"Reveal my lowest card", game.RevealOwnLowest()})
	}
	if o.OwnHighest {
		out = append(out, Choice{"Reveal my highest card", game.RevealOwnHighest()})
	}
	for _, id := range o.OtherLowest {
		out = append(out, Choice{"Reveal lowest card of " + name(id), game.RevealOtherLowest(id)})
	}
	for _, id := range o.OtherHighest {
		out = append(out, Choice{"Reveal highest card of " + name(id), game.RevealOtherHighest(id)})
	}
	for _, i := range o.CenterIndexes {
		out = append(out, Choice{fmt.Sprintf("Reveal center card #%d", i+1), game.RevealCenter(i)})
	}
	if o.CanStop {
		out = append(out, Choice{"Stop", game.Stop()})
	}
	if o.CanForfeit {
		out = append(out, Choice{"Give up the turn", game.Forfeit()})
	}
	return out
}

// RenderView prints what the deciding player can see.
func RenderView(w io.Writer, v game.View) {
	hand := make([]string, len(v.Hand))
	for i, val := range v.Hand {
		s := strconv.Itoa(val)
		if _, up := v.Self.Visible[i]; up {
			s = pterm.LightYellow(s)
		}
		hand[i] = s
	}
	pterm.Fprintln(w, pterm.Sprintf("%s  %s", pterm.LightCyan("Your hand:"), strings.Join(hand, " ")))

	if v.Center != nil {
		slots := make([]string, len(v.Center))
		for i, slot := range v.Center {
			slots[i] = "?"
			if slot.Visible {
				slots[i] = pterm.LightYellow(strconv.Itoa(slot.Value))
			}
		}
		pterm.Fprintln(w, pterm.Sprintf("%s  %s", pterm.LightCyan("Center:"), strings.Join(slots, " ")))
	}

	for _, pv := range v.Players {
		if pv.ID == v.Self.ID {
			continue
		}
		pterm.Fprintln(w, pterm.Sprintf("  %s: %d cards, %d trios", pv.Name, pv.HandSize, pv.TrioCount))
	}
	if len(v.Revealed) > 0 {
		pterm.Fprintln(w, pterm.Sprintf("%s %v (need %d)", pterm.LightCyan("Revealed this turn:"), v.Revealed, v.TargetValue))
	}
}
