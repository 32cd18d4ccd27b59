// internal/console/renderer.go
package console

import (
	"io"
	"strconv"

	"github.com/jason-s-yu/trios/internal/game"
	"github.com/pterm/pterm"
)

// Renderer is a game.Notifier that narrates the match on a terminal.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) println(s string) {
	pterm.Fprintln(r.out, s)
}

func (r *Renderer) OnTurnStarted(p *game.Player, turn int) {
	r.println(pterm.Sprintf("\n%s %s", pterm.Gray("turn "+strconv.Itoa(turn)), pterm.LightCyan(p.Name)))
}

func (r *Renderer) OnCardRevealed(actor *game.Player, card *game.Card, owner *game.Player, isFirst, isMatch bool, expected int) {
	from := "the center"
	if owner != nil {
		from = owner.Name + "'s hand"
	}
	mark := pterm.LightGreen("match")
	switch {
	case isFirst:
		mark = pterm.Gray("first")
	case !isMatch:
		mark = pterm.LightRed("needed " + strconv.Itoa(expected))
	}
	r.println(pterm.Sprintf("  %s reveals %s from %s (%s)", actor.Name, pterm.LightYellow(card.Value()), from, mark))
}

func (r *Renderer) OnCardsExchanged(p, mate *game.Player) {
	r.println(pterm.Sprintf("  %s swaps a card with %s", p.Name, mate.Name))
}

func (r *Renderer) OnTrioAwarded(actor *game.Player, holder game.Holder, trios int) {
	r.println(pterm.Success.Sprintf("%s takes a trio, %s now has %d", actor.Name, holder.HolderName(), trios))
}

func (r *Renderer) OnTurnFailed(p *game.Player) {
	r.println(pterm.Sprintf("  %s", pterm.Gray("no trio, cards go back face down")))
}

func (r *Renderer) OnActionRejected(p *game.Player, a game.Action, reason error) {
	r.println(pterm.Warning.Sprintf("%s: %s", a.Kind, reason))
}

func (r *Renderer) OnMatchWon(holder game.Holder) {
	msg := pterm.Sprintf("%s wins with %d trios", holder.HolderName(), holder.TrioCount())
	if holder.SevenBonus() {
		msg += ", holding the sevens"
	}
	r.println(pterm.Success.Sprint(msg))
}

func (r *Renderer) OnMatchDrawn() {
	r.println(pterm.Info.Sprint("every card is collected and nobody reached three trios: draw"))
}

// RenderStandings prints a table of holders and their trios.
func RenderStandings(w io.Writer, holders []game.Holder) error {
	data := pterm.TableData{{"Holder", "Trios", "Sevens"}}
	for _, h := range holders {
		sevens := ""
		if h.SevenBonus() {
			sevens = "yes"
		}
		data = append(data, []string{h.HolderName(), strconv.Itoa(h.TrioCount()), sevens})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, table)
	return nil
}
