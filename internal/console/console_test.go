// internal/console/console_test.go
package console

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/jason-s-yu/trios/internal/game"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// scriptedPrompter answers prompts from a list, matching each answer against the offered options.
type scriptedPrompter struct {
	answers []func(options []string) string
	titles  []string
}

func (s *scriptedPrompter) Select(_ context.Context, title string, options []string) (string, error) {
	s.titles = append(s.titles, title)
	if len(s.answers) == 0 {
		return "", errors.New("no answer")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next(options), nil
}

func pick(label string) func([]string) string {
	return func([]string) string { return label }
}

func first(options []string) string { return options[0] }

func quietConfig(n game.Notifier) game.Config {
	l, _ := test.NewNullLogger()
	return game.Config{Notifier: n, Logger: logrus.NewEntry(l), Rand: rand.New(rand.NewSource(3))}
}

func TestChoicesFollowOptions(t *testing.T) {
	players := []*game.Player{
		game.NewBot("a", game.NewBotPolicy(1)),
		game.NewBot("b", game.NewBotPolicy(2)),
		game.NewBot("c", game.NewBotPolicy(3)),
	}
	e, err := game.NewSoloMatch(players, quietConfig(nil))
	require.NoError(t, err)

	choices := Choices(e.ViewFor(players[0]))
	var labels []string
	for _, c := range choices {
		labels = append(labels, c.Label)
	}
	assert.Contains(t, labels, "Reveal my lowest card")
	assert.Contains(t, labels, "Reveal highest card of b")
	assert.Contains(t, labels, "Reveal center card #9")
	assert.NotContains(t, labels, "Stop", "stop needs two reveals")
	assert.NotContains(t, labels, "Give up the turn")
	for _, c := range choices {
		assert.NotEqual(t, game.ActionExchange, c.Action.Kind)
	}
}

func TestHumanProviderPlaysATurn(t *testing.T) {
	prompt := &scriptedPrompter{}
	var out bytes.Buffer
	human := game.NewHuman("ana", NewHumanProvider(prompt, &out))
	players := []*game.Player{human, game.NewBot("b", game.NewBotPolicy(2)), game.NewBot("c", game.NewBotPolicy(3))}
	var narration bytes.Buffer
	e, err := game.NewSoloMatch(players, quietConfig(NewRenderer(&narration)))
	require.NoError(t, err)

	prompt.answers = []func([]string) string{
		pick("Reveal my lowest card"),
		pick("Reveal my highest card"),
		first,
		first,
	}
	res, err := e.PlayTurn(context.Background())
	require.NoError(t, err)

	assert.Same(t, human, res.Player)
	assert.GreaterOrEqual(t, res.Revealed, 1)
	assert.Contains(t, out.String(), "Your hand:")
	assert.Contains(t, out.String(), "Center:")
	assert.Contains(t, prompt.titles[0], "ana, your move")
	assert.Contains(t, narration.String(), "ana reveals")
}

func TestHumanProviderPropagatesPromptErrors(t *testing.T) {
	human := game.NewHuman("ana", NewHumanProvider(&scriptedPrompter{}, &bytes.Buffer{}))
	players := []*game.Player{human, game.NewBot("b", game.NewBotPolicy(2)), game.NewBot("c", game.NewBotPolicy(3))}
	e, err := game.NewSoloMatch(players, quietConfig(nil))
	require.NoError(t, err)

	_, err = e.PlayTurn(context.Background())
	require.Error(t, err)
	_, err = e.Play(context.Background())
	assert.ErrorIs(t, err, game.ErrMatchDiscarded)
}

func TestHumanProviderExchange(t *testing.T) {
	prompt := &scriptedPrompter{}
	a0 := game.NewHuman("a0", NewHumanProvider(prompt, &bytes.Buffer{}))
	a1 := game.NewBot("a1", game.NewBotPolicy(1))
	teams := []*game.Team{
		game.NewTeam("A", a0, a1),
		game.NewTeam("B", game.NewBot("b0", game.NewBotPolicy(2)), game.NewBot("b1", game.NewBotPolicy(3))),
	}
	var rejected []error
	n := game.MultiNotifier{rejectionLog{errs: &rejected}, game.LogNotifier{Logger: quietConfig(nil).Logger}}
	e, err := game.NewTeamMatch(teams, quietConfig(n))
	require.NoError(t, err)

	prompt.answers = []func([]string) string{
		pick("Exchange a card with a1"),
		pick("#1"),
		pick("#9"),
		pick("Reveal my lowest card"),
		pick("Reveal my highest card"),
		first,
	}
	_, err = e.PlayTurn(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, "Card to give", prompt.titles[1])
	assert.Equal(t, "Card to take from a1", prompt.titles[2])
	assert.Equal(t, 9, a0.Hand.Size())
	assert.Equal(t, 9, a1.Hand.Size())
}

type rejectionLog struct {
	game.NopNotifier
	errs *[]error
}

func (r rejectionLog) OnActionRejected(_ *game.Player, _ game.Action, reason error) {
	*r.errs = append(*r.errs, reason)
}

func TestPosition(t *testing.T) {
	assert.Equal(t, 0, position("#1 (4)"))
	assert.Equal(t, 8, position("#9"))
	assert.Equal(t, -1, position("nine"))
	assert.Equal(t, -1, position(""))
}

func TestRendererAndStandings(t *testing.T) {
	var out bytes.Buffer
	players := []*game.Player{
		game.NewBot("a", game.NewBotPolicy(1)),
		game.NewBot("b", game.NewBotPolicy(2)),
		game.NewBot("c", game.NewBotPolicy(3)),
	}
	e, err := game.NewSoloMatch(players, quietConfig(NewRenderer(&out)))
	require.NoError(t, err)
	winner, err := e.Play(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "turn 1")
	assert.Contains(t, text, "reveals")
	if winner != nil {
		assert.Contains(t, text, winner.HolderName()+" wins with 3 trios")
	} else {
		assert.Contains(t, text, "draw")
	}

	var table bytes.Buffer
	require.NoError(t, RenderStandings(&table, e.Holders()))
	assert.Contains(t, table.String(), "Holder")
	for _, p := range players {
		assert.Contains(t, table.String(), p.Name)
	}
}
