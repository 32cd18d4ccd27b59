// internal/game/notify.go
package game

import (
	"github.com/sirupsen/logrus"
)

// Notifier observes engine state changes. Calls are synchronous and fire-and-forget:
// the engine never branches on them.
type Notifier interface {
	OnTurnStarted(p *Player, turn int)
	// OnCardRevealed reports a reveal by actor; owner is nil for center cards.
	// expected is the turn's target value (the card's own value on the first reveal).
	OnCardRevealed(actor *Player, card *Card, owner *Player, isFirst, isMatch bool, expected int)
	OnCardsExchanged(p, mate *Player)
	OnTrioAwarded(actor *Player, holder Holder, trios int)
	OnTurnFailed(p *Player)
	OnActionRejected(p *Player, a Action, reason error)
	OnMatchWon(holder Holder)
	OnMatchDrawn()
}

// NopNotifier ignores every call. Embed it to implement only the hooks you need.
type NopNotifier struct{}

func (NopNotifier) OnTurnStarted(*Player, int) {}
func (NopNotifier) OnCardRevealed(*Player, *Card, *Player, bool, bool, int) {}
func (NopNotifier) OnCardsExchanged(*Player, *Player) {}
func (NopNotifier) OnTrioAwarded(*Player, Holder, int) {}
func (NopNotifier) OnTurnFailed(*Player) {}
func (NopNotifier) OnActionRejected(*Player, Action, error) {}
func (NopNotifier) OnMatchWon(Holder) {}
func (NopNotifier) OnMatchDrawn() {}

// MultiNotifier fans every call out to each notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) OnTurnStarted(p *Player, turn int) {
	for _, n := range m {
		n.OnTurnStarted(p, turn)
	}
}

func (m MultiNotifier) OnCardRevealed(actor *Player, card *Card, owner *Player, isFirst, isMatch bool, expected int) {
	for _, n := range m {
		n.OnCardRevealed(actor, card, owner, isFirst, isMatch, expected)
	}
}

func (m MultiNotifier) OnCardsExchanged(p, mate *Player) {
	for _, n := range m {
		n.OnCardsExchanged(p, mate)
	}
}

func (m MultiNotifier) OnTrioAwarded(actor *Player, holder Holder, trios int) {
	for _, n := range m {
		n.OnTrioAwarded(actor, holder, trios)
	}
}

func (m MultiNotifier) OnTurnFailed(p *Player) {
	for _, n := range m {
		n.OnTurnFailed(p)
	}
}

func (m MultiNotifier) OnActionRejected(p *Player, a Action, reason error) {
	for _, n := range m {
		n.OnActionRejected(p, a, reason)
	}
}

func (m MultiNotifier) OnMatchWon(holder Holder) {
	for _, n := range m {
		n.OnMatchWon(holder)
	}
}

func (m MultiNotifier) OnMatchDrawn() {
	for _, n := range m {
		n.OnMatchDrawn()
	}
}

// LogNotifier writes every notification to a logrus entry.
type LogNotifier struct {
	Logger *logrus.Entry
}

func (l LogNotifier) OnTurnStarted(p *Player, turn int) {
	l.Logger.WithFields(logrus.Fields{"player": p.Name, "turn": turn}).Debug("turn started")
}

func (l LogNotifier) OnCardRevealed(actor *Player, card *Card, owner *Player, isFirst, isMatch bool, expected int) {
	source := "center"
	if owner != nil {
		source = owner.Name
	}
	l.Logger.WithFields(logrus.Fields{
		"player":   actor.Name,
		"source":   source,
		"value":    card.Value(),
		"first":    isFirst,
		"match":    isMatch,
		"expected": expected,
	}).Debug("card revealed")
}

func (l LogNotifier) OnCardsExchanged(p, mate *Player) {
	l.Logger.WithFields(logrus.Fields{"player": p.Name, "teammate": mate.Name}).Debug("cards exchanged")
}

func (l LogNotifier) OnTrioAwarded(actor *Player, holder Holder, trios int) {
	l.Logger.WithFields(logrus.Fields{"player": actor.Name, "holder": holder.HolderName(), "trios": trios}).Info("trio awarded")
}

func (l LogNotifier) OnTurnFailed(p *Player) {
	l.Logger.WithField("player", p.Name).Debug("turn failed")
}

func (l LogNotifier) OnActionRejected(p *Player, a Action, reason error) {
	l.Logger.WithFields(logrus.Fields{"player": p.Name, "action": a.String()}).WithError(reason).Debug("action rejected")
}

func (l LogNotifier) OnMatchWon(holder Holder) {
	l.Logger.WithFields(logrus.Fields{"winner": holder.HolderName(), "trios": holder.TrioCount()}).Info("match won")
}

func (l LogNotifier) OnMatchDrawn() {
	l.Logger.Info("match drawn")
}
