// internal/game/bot.go
package game

import (
	"context"
	"math/rand"
)

// DefaultExchangeChance is how often a bot opens its turn with an exchange when it can.
const DefaultExchangeChance = 0.20

// BotPolicy picks actions uniformly at random among the legal ones.
// Two policies built from the same seed make the same choices for the same views.
type BotPolicy struct {
	ExchangeChance float64
	rng            *rand.Rand
}

// NewBotPolicy returns a policy seeded with seed.
func NewBotPolicy(seed int64) *BotPolicy {
	return &BotPolicy{
		ExchangeChance: DefaultExchangeChance,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Decide implements ActionProvider. It never stops before two reveals and never picks an
// action without an eligible target; with nothing to reveal it stops if allowed, else forfeits.
func (b *BotPolicy) Decide(_ context.Context, v View) (Action, error) {
	o := v.Options

	if len(o.ExchangeTargets) > 0 && b.rng.Float64() < b.ExchangeChance {
		if a, ok := b.pickExchange(v); ok {
			return a, nil
		}
	}

	var kinds []ActionKind
	if o.OwnLowest {
		kinds = append(kinds, ActionRevealOwnLowest)
	}
	if o.OwnHighest {
		kinds = append(kinds, ActionRevealOwnHighest)
	}
	if len(o.OtherLowest) > 0 {
		kinds = append(kinds, ActionRevealOtherLowest)
	}
	if len(o.OtherHighest) > 0 {
		kinds = append(kinds, ActionRevealOtherHighest)
	}
	if len(o.CenterIndexes) > 0 {
		kinds = append(kinds, ActionRevealCenter)
	}

	if len(kinds) == 0 {
		if o.CanStop {
			return Stop(), nil
		}
		return Forfeit(), nil
	}

	switch kinds[b.rng.Intn(len(kinds))] {
	case ActionRevealOwnLowest:
		return RevealOwnLowest(), nil
	case ActionRevealOwnHighest:
		return RevealOwnHighest(), nil
	case ActionRevealOtherLowest:
		return RevealOtherLowest(o.OtherLowest[b.rng.Intn(len(o.OtherLowest))]), nil
	case ActionRevealOtherHighest:
		return RevealOtherHighest(o.OtherHighest[b.rng.Intn(len(o.OtherHighest))]), nil
	default:
		return RevealCenter(o.CenterIndexes[b.rng.Intn(len(o.CenterIndexes))]), nil
	}
}

func (b *BotPolicy) pickExchange(v View) (Action, bool) {
	mateID := v.Options.ExchangeTargets[b.rng.Intn(len(v.Options.ExchangeTargets))]
	mate, ok := v.Player(mateID)
	if !ok || mate.HandSize == 0 || len(v.Hand) == 0 {
		return Action{}, false
	}
	return Exchange(mateID, b.rng.Intn(len(v.Hand)), b.rng.Intn(mate.HandSize)), true
}
