// internal/game/view.go
package game

import "github.com/google/uuid"

// options evaluates every action against the same checks apply uses.
func (e *Engine) options(p *Player) Options {
	o := Options{CanStop: len(e.revealed) >= 2}

	_, _, _, err := e.revealSource(p, RevealOwnLowest())
	o.OwnLowest = err == nil
	_, _, _, err = e.revealSource(p, RevealOwnHighest())
	o.OwnHighest = err == nil

	for _, q := range e.Players {
		if q == p {
			continue
		}
		if _, _, _, err := e.revealSource(p, RevealOtherLowest(q.ID)); err == nil {
			o.OtherLowest = append(o.OtherLowest, q.ID)
		}
		if _, _, _, err := e.revealSource(p, RevealOtherHighest(q.ID)); err == nil {
			o.OtherHighest = append(o.OtherHighest, q.ID)
		}
	}

	if e.Center != nil {
		for i, c := range e.Center.cards {
			if !c.Visible {
				o.CenterIndexes = append(o.CenterIndexes, i)
			}
		}
	}

	if e.Mode == ModeTeam && !p.Hand.IsEmpty() {
		for _, q := range e.Players {
			if q.Hand.IsEmpty() {
				continue
			}
			if _, err := e.checkExchange(p, Exchange(q.ID, 0, 0)); err == nil {
				o.ExchangeTargets = append(o.ExchangeTargets, q.ID)
			}
		}
	}

	o.CanForfeit = !o.AnyReveal()
	return o
}

func playerView(p *Player) PlayerView {
	pv := PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      p.Kind,
		TeamID:    p.TeamID,
		HandSize:  p.Hand.Size(),
		TrioCount: p.TrioCount(),
		Visible:   map[int]int{},
	}
	for i, c := range p.Hand.cards {
		if c.Visible {
			pv.Visible[i] = c.Value()
		}
	}
	return pv
}

// ViewFor builds what p may see: its own hand, public seat data, face-up cards
// and the actions currently legal for p.
func (e *Engine) ViewFor(p *Player) View {
	v := View{
		MatchID:      e.ID,
		Mode:         e.Mode,
		Self:         playerView(p),
		TargetValue:  e.targetValue,
		ExchangeUsed: e.exchangeUsed,
		Options:      e.options(p),
	}
	for _, c := range p.Hand.cards {
		v.Hand = append(v.Hand, c.Value())
	}
	for _, q := range e.Players {
		v.Players = append(v.Players, playerView(q))
	}
	if e.Center != nil {
		for i, c := range e.Center.cards {
			slot := CenterSlot{Index: i, Visible: c.Visible}
			if c.Visible {
				slot.Value = c.Value()
			}
			v.Center = append(v.Center, slot)
		}
	}
	for _, rc := range e.revealed {
		v.Revealed = append(v.Revealed, rc.Card.Value())
	}
	return v
}

// Teammates returns the ids of the viewer's teammates.
func (v View) Teammates() []uuid.UUID {
	if v.Self.TeamID == uuid.Nil {
		return nil
	}
	var out []uuid.UUID
	for _, pv := range v.Players {
		if pv.ID != v.Self.ID && pv.TeamID == v.Self.TeamID {
			out = append(out, pv.ID)
		}
	}
	return out
}
