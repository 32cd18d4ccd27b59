// internal/game/engine.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/trios/internal/models"
	"github.com/sirupsen/logrus"
)

// WinningTrios is the trio count that ends the match.
const WinningTrios = 3

// DefaultMaxTurns caps a match when Config.MaxTurns is zero.
const DefaultMaxTurns = 2000

var (
	ErrMatchOver      = errors.New("match is over")
	ErrMatchDiscarded = errors.New("match was abandoned")
)

// ResultRecorder persists a finished match. It is called once, when the match ends.
type ResultRecorder interface {
	RecordMatch(ctx context.Context, summary models.MatchSummary) error
}

// Config carries the collaborators injected into an engine. Zero values are replaced
// with no-op defaults.
type Config struct {
	Notifier Notifier
	Recorder ResultRecorder
	Logger   *logrus.Entry
	Rand     *rand.Rand
	// MaxTurns ends the match drawn once that many turns have been played.
	// Zero means DefaultMaxTurns; a negative value disables the cap.
	MaxTurns int
}

// TurnOutcome is how a turn resolved.
type TurnOutcome int

const (
	OutcomeFailed TurnOutcome = iota
	OutcomeTrio
)

func (o TurnOutcome) String() string {
	if o == OutcomeTrio {
		return "trio"
	}
	return "failed"
}

// TurnResult describes one completed turn.
type TurnResult struct {
	Player   *Player
	Outcome  TurnOutcome
	Revealed int
	// Winner is set when this turn ended the match.
	Winner Holder
	Drawn  bool
}

// Engine is the single-writer state machine for one match. It performs no locking:
// callers sharing an engine across goroutines must serialize access (see Match).
type Engine struct {
	ID      uuid.UUID
	Mode    Mode
	Players []*Player
	Teams   []*Team
	// Center is nil in team mode.
	Center *Deck

	order        []*Player
	current      int
	turn         int
	revealed     []RevealedCard
	targetValue  int
	exchangeUsed bool
	maxTurns     int

	over      bool
	discarded bool
	winner    Holder

	notifier Notifier
	recorder ResultRecorder
	logger   *logrus.Entry
	rng      *rand.Rand
}

// NewSoloMatch deals a solo match: every player for themself, with a shared center pile.
func NewSoloMatch(players []*Player, cfg Config) (*Engine, error) {
	counts, err := DealPolicy(ModeSolo, len(players))
	if err != nil {
		return nil, err
	}
	if err := validateSeats(players); err != nil {
		return nil, err
	}
	e := newEngine(ModeSolo, players, nil, SoloOrder(players), cfg)
	e.Center = NewDeck()
	deal(NewCardSet(), e.order, e.Center, counts, e.rng)
	e.logger.WithFields(logrus.Fields{"players": len(players), "perPlayer": counts.PerPlayer, "center": counts.Center}).Info("solo match dealt")
	return e, nil
}

// NewTeamMatch deals a team match: 2 or 3 teams of exactly 2, no center pile.
func NewTeamMatch(teams []*Team, cfg Config) (*Engine, error) {
	if len(teams) < 2 || len(teams) > 3 {
		return nil, fmt.Errorf("%d teams: %w", len(teams), ErrInvalidConfiguration)
	}
	var players []*Player
	for _, t := range teams {
		if len(t.Players) != TeamSize {
			return nil, fmt.Errorf("team %s has %d players: %w", t.Name, len(t.Players), ErrInvalidConfiguration)
		}
		for _, p := range t.Players {
			if p.TeamID != t.ID {
				return nil, fmt.Errorf("player %s is not registered to team %s: %w", p.Name, t.Name, ErrInvalidConfiguration)
			}
		}
		players = append(players, t.Players...)
	}
	counts, err := DealPolicy(ModeTeam, len(players))
	if err != nil {
		return nil, err
	}
	if err := validateSeats(players); err != nil {
		return nil, err
	}
	e := newEngine(ModeTeam, players, teams, TeamOrder(teams), cfg)
	deal(NewCardSet(), e.order, nil, counts, e.rng)
	e.logger.WithFields(logrus.Fields{"teams": len(teams), "perPlayer": counts.PerPlayer}).Info("team match dealt")
	return e, nil
}

// validateSeats rejects reused or incomplete players.
func validateSeats(players []*Player) error {
	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		switch {
		case p == nil:
			return fmt.Errorf("nil player: %w", ErrInvalidConfiguration)
		case seen[p.ID]:
			return fmt.Errorf("player %s seated twice: %w", p.Name, ErrInvalidConfiguration)
		case p.provider == nil:
			return fmt.Errorf("player %s has no action provider: %w", p.Name, ErrInvalidConfiguration)
		case !p.Hand.IsEmpty() || !p.WonTrios.IsEmpty():
			return fmt.Errorf("player %s already holds cards: %w", p.Name, ErrInvalidConfiguration)
		}
		seen[p.ID] = true
	}
	return nil
}

func newEngine(mode Mode, players []*Player, teams []*Team, order PlayOrder, cfg Config) *Engine {
	id := uuid.New()
	e := &Engine{
		ID:       id,
		Mode:     mode,
		Players:  players,
		Teams:    teams,
		order:    order(),
		notifier: cfg.Notifier,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		rng:      cfg.Rand,
		maxTurns: cfg.MaxTurns,
	}
	if e.maxTurns == 0 {
		e.maxTurns = DefaultMaxTurns
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	if e.logger == nil {
		e.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	e.logger = e.logger.WithField("match_id", id)
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// SetNotifier replaces the notifier; nil installs a NopNotifier.
func (e *Engine) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	e.notifier = n
}

// PlayOrder returns the fixed seating order.
func (e *Engine) PlayOrder() []*Player {
	out := make([]*Player, len(e.order))
	copy(out, e.order)
	return out
}

// CurrentPlayer is the player whose turn it is.
func (e *Engine) CurrentPlayer() *Player { return e.order[e.current] }

// Turn is the number of turns started so far.
func (e *Engine) Turn() int { return e.turn }

// Revealed returns the cards revealed in the turn in progress.
func (e *Engine) Revealed() []RevealedCard {
	out := make([]RevealedCard, len(e.revealed))
	copy(out, e.revealed)
	return out
}

func (e *Engine) IsOver() bool { return e.over }
func (e *Engine) Winner() Holder { return e.winner }

// Drawn reports a finished match without a winner.
func (e *Engine) Drawn() bool { return e.over && e.winner == nil && !e.discarded }

// Holders returns the units checked for the win, in registration order.
func (e *Engine) Holders() []Holder {
	if e.Mode == ModeTeam {
		out := make([]Holder, len(e.Teams))
		for i, t := range e.Teams {
			out[i] = t
		}
		return out
	}
	out := make([]Holder, len(e.Players))
	for i, p := range e.Players {
		out[i] = p
	}
	return out
}

// HolderOf returns the holder credited with p's trios.
func (e *Engine) HolderOf(p *Player) Holder {
	if e.Mode == ModeTeam {
		if t := e.teamOf(p); t != nil {
			return t
		}
	}
	return p
}

func (e *Engine) teamOf(p *Player) *Team {
	for _, t := range e.Teams {
		if t.ID == p.TeamID {
			return t
		}
	}
	return nil
}

func (e *Engine) playerByID(id uuid.UUID) *Player {
	for _, p := range e.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Play runs turns until the match is won or drawn.
func (e *Engine) Play(ctx context.Context) (Holder, error) {
	for !e.over {
		if _, err := e.PlayTurn(ctx); err != nil {
			return nil, err
		}
	}
	if e.discarded {
		return nil, ErrMatchDiscarded
	}
	return e.winner, nil
}

type step int

const (
	stepContinue step = iota
	stepStop
	stepMismatch
	stepComplete
	stepForfeit
)

// PlayTurn runs one full turn for the current player: it queries the player's provider until
// the turn ends, resolves trio or failure, checks the win and advances the play order.
func (e *Engine) PlayTurn(ctx context.Context) (TurnResult, error) {
	if e.discarded {
		return TurnResult{}, ErrMatchDiscarded
	}
	if e.over {
		return TurnResult{}, ErrMatchOver
	}

	p := e.order[e.current]
	e.beginTurn(p)
	res := TurnResult{Player: p}

	for {
		a, err := p.Decide(ctx, e.ViewFor(p))
		if err != nil {
			e.discard()
			return res, fmt.Errorf("decide for %s: %w", p.Name, err)
		}
		st, err := e.apply(p, a)
		if err != nil {
			if !errors.Is(err, ErrRejected) {
				return res, err
			}
			e.notifier.OnActionRejected(p, a, err)
			if !p.IsBot() {
				continue
			}
			e.logger.WithFields(logrus.Fields{"player": p.Name, "action": a.String()}).WithError(err).Warn("bot action rejected, failing turn")
			st = stepForfeit
		}
		if st != stepContinue {
			break
		}
	}

	res.Revealed = len(e.revealed)
	if IsValidTrio(e.revealed) {
		if err := e.awardTrio(p); err != nil {
			return res, err
		}
		res.Outcome = OutcomeTrio
	} else {
		e.failTurn(p)
		res.Outcome = OutcomeFailed
	}

	if h := e.checkWin(); h != nil {
		e.finish(ctx, h)
		res.Winner = h
		return res, nil
	}
	if reason := e.stalemate(); reason != "" {
		e.logger.WithField("reason", reason).Debug("no trio left to play for")
		e.finish(ctx, nil)
		res.Drawn = true
		return res, nil
	}
	e.current = (e.current + 1) % len(e.order)
	return res, nil
}

func (e *Engine) beginTurn(p *Player) {
	e.revealed = e.revealed[:0]
	e.targetValue = 0
	e.exchangeUsed = false
	e.turn++
	e.logger.WithFields(logrus.Fields{"player": p.Name, "turn": e.turn}).Debug("turn start")
	e.notifier.OnTurnStarted(p, e.turn)
}

// apply validates and performs one action. Rule violations return an error wrapping
// ErrRejected and leave the state untouched.
func (e *Engine) apply(p *Player, a Action) (step, error) {
	switch a.Kind {
	case ActionStop:
		if len(e.revealed) < 2 {
			return stepContinue, ErrStopTooEarly
		}
		return stepStop, nil
	case ActionRevealOwnLowest, ActionRevealOwnHighest, ActionRevealOtherLowest, ActionRevealOtherHighest, ActionRevealCenter:
		return e.reveal(p, a)
	case ActionExchange:
		return stepContinue, e.exchange(p, a)
	case ActionForfeit:
		if e.options(p).AnyReveal() {
			return stepContinue, ErrForfeitNotAllowed
		}
		return stepForfeit, nil
	}
	return stepContinue, fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Kind))
}

// revealSource finds the card an action would flip, without flipping it.
func (e *Engine) revealSource(p *Player, a Action) (*Card, *Player, int, error) {
	switch a.Kind {
	case ActionRevealOwnLowest, ActionRevealOwnHighest:
		c, i, err := handCard(p.Hand, a.Kind == ActionRevealOwnLowest)
		return c, p, i, err
	case ActionRevealOtherLowest, ActionRevealOtherHighest:
		target := e.playerByID(a.Target)
		if target == nil {
			return nil, nil, -1, ErrUnknownPlayer
		}
		if target == p {
			return nil, nil, -1, fmt.Errorf("%w: target is the acting player", ErrNoEligibleTarget)
		}
		c, i, err := handCard(target.Hand, a.Kind == ActionRevealOtherLowest)
		return c, target, i, err
	case ActionRevealCenter:
		if e.Center == nil {
			return nil, nil, -1, ErrCenterUnavailable
		}
		c, err := e.Center.At(a.Index)
		if err != nil {
			return nil, nil, -1, fmt.Errorf("%w: center index %d", ErrNoEligibleTarget, a.Index)
		}
		if c.Visible {
			return nil, nil, -1, ErrAlreadyRevealed
		}
		return c, nil, a.Index, nil
	}
	return nil, nil, -1, ErrUnknownAction
}

// handCard picks the lowest or highest card of a hand. Revealing that card again in the
// same turn is rejected; the next card in line is never substituted.
func handCard(hand *Deck, lowest bool) (*Card, int, error) {
	var (
		c   *Card
		i   int
		err error
	)
	if lowest {
		c, i, err = hand.Lowest()
	} else {
		c, i, err = hand.Highest()
	}
	if err != nil {
		return nil, -1, ErrNoEligibleTarget
	}
	if c.Visible {
		return nil, -1, ErrAlreadyRevealed
	}
	return c, i, nil
}

func (e *Engine) reveal(p *Player, a Action) (step, error) {
	card, owner, idx, err := e.revealSource(p, a)
	if err != nil {
		return stepContinue, err
	}
	card.Visible = true
	e.revealed = append(e.revealed, RevealedCard{Card: card, Owner: owner, SourceIndex: idx})

	first := len(e.revealed) == 1
	if first {
		e.targetValue = card.Value()
	}
	match := card.Value() == e.targetValue
	e.notifier.OnCardRevealed(p, card, owner, first, match, e.targetValue)

	switch {
	case !match:
		return stepMismatch, nil
	case len(e.revealed) == 3:
		return stepComplete, nil
	}
	return stepContinue, nil
}

// checkExchange validates an exchange and returns the teammate.
func (e *Engine) checkExchange(p *Player, a Action) (*Player, error) {
	if e.Mode != ModeTeam {
		return nil, ErrExchangeNotAllowed
	}
	if e.exchangeUsed {
		return nil, ErrExchangeUsed
	}
	if len(e.revealed) > 0 {
		return nil, ErrExchangeAfterReveal
	}
	mate := e.playerByID(a.Target)
	if mate == nil {
		return nil, ErrUnknownPlayer
	}
	if mate == p || mate.TeamID != p.TeamID {
		return nil, ErrNotTeammate
	}
	if a.OwnIndex < 0 || a.OwnIndex >= p.Hand.Size() || a.MateIndex < 0 || a.MateIndex >= mate.Hand.Size() {
		return nil, ErrExchangeIndex
	}
	return mate, nil
}

func (e *Engine) exchange(p *Player, a Action) error {
	mate, err := e.checkExchange(p, a)
	if err != nil {
		return err
	}
	own, _ := p.Hand.At(a.OwnIndex)
	theirs, _ := mate.Hand.At(a.MateIndex)
	if _, err := p.Hand.Remove(own); err != nil {
		return fmt.Errorf("exchange: %w", err)
	}
	if _, err := mate.Hand.Remove(theirs); err != nil {
		return fmt.Errorf("exchange: %w", err)
	}
	p.addToHand(theirs)
	mate.addToHand(own)
	e.exchangeUsed = true

	e.logger.WithFields(logrus.Fields{"player": p.Name, "teammate": mate.Name}).Debug("cards exchanged")
	e.notifier.OnCardsExchanged(p, mate)
	return nil
}

// awardTrio moves the three revealed cards from their sources into p's won pile.
func (e *Engine) awardTrio(p *Player) error {
	for _, rc := range e.revealed {
		src := e.Center
		if rc.Owner != nil {
			src = rc.Owner.Hand
		}
		if _, err := src.Remove(rc.Card); err != nil {
			return fmt.Errorf("award trio to %s: %w", p.Name, err)
		}
		p.WonTrios.Add(rc.Card)
	}
	e.revealed = e.revealed[:0]

	holder := e.HolderOf(p)
	e.logger.WithFields(logrus.Fields{"player": p.Name, "holder": holder.HolderName(), "trios": holder.TrioCount()}).Debug("trio awarded")
	e.notifier.OnTrioAwarded(p, holder, holder.TrioCount())
	return nil
}

// failTurn hides every revealed card where it lies.
func (e *Engine) failTurn(p *Player) {
	for _, rc := range e.revealed {
		rc.Card.Visible = false
	}
	e.revealed = e.revealed[:0]
	e.logger.WithField("player", p.Name).Debug("turn failed")
	e.notifier.OnTurnFailed(p)
}

func (e *Engine) checkWin() Holder {
	for _, h := range e.Holders() {
		if h.TrioCount() >= WinningTrios {
			return h
		}
	}
	return nil
}

// allCollected reports whether every card sits in a won pile.
func (e *Engine) allCollected() bool {
	if e.Center != nil && !e.Center.IsEmpty() {
		return false
	}
	for _, p := range e.Players {
		if !p.Hand.IsEmpty() {
			return false
		}
	}
	return true
}

// trioReachable reports whether some value still has three copies among the cards a
// turn can flip: the lowest and highest card of every hand and each center card.
// Failed turns leave hands as they were, so in solo play a false result is final.
func (e *Engine) trioReachable() bool {
	counts := make(map[int]int, MaxCardValue)
	for _, p := range e.Players {
		low, i, err := p.Hand.Lowest()
		if err != nil {
			continue
		}
		counts[low.Value()]++
		if high, j, _ := p.Hand.Highest(); j != i {
			counts[high.Value()]++
		}
	}
	if e.Center != nil {
		for _, c := range e.Center.cards {
			counts[c.Value()]++
		}
	}
	for _, n := range counts {
		if n >= CopiesOfValue {
			return true
		}
	}
	return false
}

// stalemate names why the match can no longer be won, or returns "".
// Team hands are reshuffled by exchanges, so only the turn cap ends a stuck team match.
func (e *Engine) stalemate() string {
	switch {
	case e.allCollected():
		return "all cards collected"
	case e.Mode == ModeSolo && !e.trioReachable():
		return "no trio reachable"
	case e.maxTurns > 0 && e.turn >= e.maxTurns:
		return "turn limit"
	}
	return ""
}

func (e *Engine) finish(ctx context.Context, winner Holder) {
	e.over = true
	e.winner = winner
	if winner != nil {
		e.logger.WithFields(logrus.Fields{"winner": winner.HolderName(), "turns": e.turn}).Info("match won")
		e.notifier.OnMatchWon(winner)
	} else {
		e.logger.WithField("turns", e.turn).Info("match drawn")
		e.notifier.OnMatchDrawn()
	}
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordMatch(ctx, e.Summary()); err != nil {
		e.logger.WithError(err).Error("failed to record match result")
	}
}

func (e *Engine) discard() {
	e.over = true
	e.discarded = true
	e.logger.WithField("turn", e.turn).Warn("match abandoned while awaiting an action")
}

// Summary describes the match for persistence.
func (e *Engine) Summary() models.MatchSummary {
	s := models.MatchSummary{
		MatchID:    e.ID,
		Mode:       e.Mode.String(),
		Turns:      e.turn,
		FinishedAt: time.Now().UTC(),
	}
	winners := map[*Player]bool{}
	if e.winner != nil {
		s.WinnerID = e.winner.HolderID()
		s.WinnerName = e.winner.HolderName()
		s.SevenBonus = e.winner.SevenBonus()
		for _, m := range e.winner.Members() {
			winners[m] = true
		}
	}
	for _, p := range e.Players {
		s.Participants = append(s.Participants, models.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Human:     p.Kind == KindHuman,
			TeamID:    p.TeamID,
			TrioCount: p.TrioCount(),
			Winner:    winners[p],
		})
	}
	return s
}
