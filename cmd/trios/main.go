// cmd/trios/main.go runs trios matches in the terminal: one interactive match, or a batch of
// bot-only simulations played in parallel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jason-s-yu/trios/internal/cache"
	"github.com/jason-s-yu/trios/internal/config"
	"github.com/jason-s-yu/trios/internal/console"
	"github.com/jason-s-yu/trios/internal/database"
	"github.com/jason-s-yu/trios/internal/game"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Flags struct {
	mode     string
	players  int
	humans   int
	names    []string
	seed     int64
	simulate int
	parallel int
}

func parseFlags() Flags {
	var f Flags
	flag.StringVar(&f.mode, "mode", "solo", "solo or team")
	flag.IntVar(&f.players, "players", 3, "seats at the table (solo 3-6, team 4 or 6)")
	flag.IntVar(&f.humans, "humans", 1, "seats played from this terminal; the rest are bots")
	names := flag.String("names", "", "comma-separated names for the human seats; a name keeps its victories across matches")
	flag.Int64Var(&f.seed, "seed", 0, "random seed (0 picks one)")
	flag.IntVar(&f.simulate, "simulate", 0, "play this many bot-only matches instead of an interactive one")
	flag.IntVar(&f.parallel, "parallel", 4, "simulated matches running at once")
	flag.Parse()
	for _, n := range strings.Split(*names, ",") {
		if n = strings.TrimSpace(n); n != "" {
			f.names = append(f.names, n)
		}
	}
	if len(f.names) > f.humans {
		f.humans = len(f.names)
	}
	return f
}

// host bundles the optional collaborators shared by every match of the process.
type host struct {
	logger   *logrus.Logger
	store    *database.Store
	queue    *cache.ActionQueue
	matches  *game.MatchStore
	recorder game.ResultRecorder
}

func main() {
	f := parseFlags()
	cfg := config.Load()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h := &host{logger: logger, matches: game.NewMatchStore()}
	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL, logrus.NewEntry(logger))
		if err != nil {
			logger.WithError(err).Fatal("database unavailable")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("schema setup failed")
		}
		h.store, h.recorder = store, store
	}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Fatal("redis unavailable")
		}
		defer rdb.Close()
		h.queue = cache.NewActionQueue(rdb, cfg.QueueName)
	}

	mode, err := game.ParseMode(f.mode)
	if err != nil {
		logger.WithError(err).Fatal("bad -mode")
	}
	if _, err := game.DealPolicy(mode, f.players); err != nil {
		logger.WithError(err).Fatalf("%s mode supports %v players", mode, game.SupportedPlayerCounts(mode))
	}
	seed := f.seed
	if seed == 0 {
		seed = rand.Int63()
	}

	if f.simulate > 0 {
		if err := h.simulate(ctx, mode, f.players, f.simulate, f.parallel, seed); err != nil {
			logger.WithError(err).Fatal("simulation failed")
		}
		return
	}
	if err := h.interactive(ctx, mode, f.players, f.humans, f.names, seed); err != nil {
		if errors.Is(err, context.Canceled) {
			pterm.Info.Println("match abandoned")
			return
		}
		logger.WithError(err).Fatal("match failed")
	}
}

// seatFunc builds the player for seat i.
type seatFunc func(i int) *game.Player

func seatPlayers(n int, seat seatFunc) []*game.Player {
	players := make([]*game.Player, n)
	for i := range players {
		players[i] = seat(i)
	}
	return players
}

func (h *host) newMatch(ctx context.Context, mode game.Mode, n int, seat seatFunc, seed int64, notifier game.Notifier) (*game.Match, error) {
	cfg := game.Config{
		Recorder: h.recorder,
		Logger:   logrus.NewEntry(h.logger),
		Rand:     rand.New(rand.NewSource(seed)),
	}
	players := seatPlayers(n, seat)

	var (
		e   *game.Engine
		err error
	)
	if mode == game.ModeTeam {
		var teams []*game.Team
		for i := 0; i < n; i += game.TeamSize {
			teams = append(teams, game.NewTeam("Team "+strconv.Itoa(len(teams)+1), players[i:i+game.TeamSize]...))
		}
		e, err = game.NewTeamMatch(teams, cfg)
	} else {
		e, err = game.NewSoloMatch(players, cfg)
	}
	if err != nil {
		return nil, err
	}
	// The event stream is keyed by match id, so it is attached once the engine exists.
	if h.queue != nil {
		entry := logrus.NewEntry(h.logger).WithField("match_id", e.ID)
		notifier = game.MultiNotifier{notifier, game.EventNotifier{BroadcastFn: h.queue.Broadcaster(ctx, e.ID, entry)}}
	}
	e.SetNotifier(notifier)

	m := game.NewMatch(e)
	h.matches.Add(m)
	return m, nil
}

func (h *host) play(ctx context.Context, m *game.Match) (game.Holder, error) {
	defer h.matches.Delete(m.ID())
	var winner game.Holder
	err := m.Do(func(e *game.Engine) error {
		var err error
		winner, err = e.Play(ctx)
		return err
	})
	return winner, err
}

// humanName is the display name of human seat i. Victories are keyed by game.HumanID of
// this name, so unnamed seats share the "Player N" record.
func humanName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return "Player " + strconv.Itoa(i+1)
}

func (h *host) interactive(ctx context.Context, mode game.Mode, n, humans int, names []string, seed int64) error {
	prompt := console.PtermPrompter{}
	seat := func(i int) *game.Player {
		if i < humans {
			name := humanName(names, i)
			return game.NewHumanWithID(game.HumanID(name), name, console.NewHumanProvider(prompt, os.Stdout))
		}
		return game.NewBot("Bot "+strconv.Itoa(i+1), game.NewBotPolicy(seed+int64(i)))
	}

	renderer := console.NewRenderer(os.Stdout)
	m, err := h.newMatch(ctx, mode, n, seat, seed, renderer)
	if err != nil {
		return err
	}

	pterm.DefaultHeader.WithFullWidth().Println("Trios")
	pterm.Info.Printfln("%s match, %d seats, seed %d", mode, n, seed)
	if _, err := h.play(ctx, m); err != nil {
		return err
	}
	return m.Do(func(e *game.Engine) error {
		return console.RenderStandings(os.Stdout, e.Holders())
	})
}

// tally counts simulation outcomes by seat position.
type tally struct {
	mu    sync.Mutex
	wins  map[string]int
	draws int
	turns int
}

func (t *tally) add(winner game.Holder, turns int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns += turns
	if winner == nil {
		t.draws++
		return
	}
	t.wins[winner.HolderName()]++
}

func (h *host) simulate(ctx context.Context, mode game.Mode, n, matches, parallel int, seed int64) error {
	t := &tally{wins: map[string]int{}}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Simulating %d %s matches ...", matches, mode))
	for i := 0; i < matches; i++ {
		matchSeed := seed + int64(i)*1000
		g.Go(func() error {
			seat := func(j int) *game.Player {
				return game.NewBot("Bot "+strconv.Itoa(j+1), game.NewBotPolicy(matchSeed+int64(j)+1))
			}
			m, err := h.newMatch(gctx, mode, n, seat, matchSeed, game.NopNotifier{})
			if err != nil {
				return err
			}
			winner, err := h.play(gctx, m)
			if err != nil {
				return err
			}
			return m.Do(func(e *game.Engine) error {
				t.add(winner, e.Turn())
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Simulated %d matches", matches))

	names := make([]string, 0, len(t.wins))
	for name := range t.wins {
		names = append(names, name)
	}
	sort.Strings(names)
	data := pterm.TableData{{"Winner", "Matches"}}
	for _, name := range names {
		data = append(data, []string{name, strconv.Itoa(t.wins[name])})
	}
	data = append(data, []string{"draw", strconv.Itoa(t.draws)})
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("average turns per match: %.1f", float64(t.turns)/float64(matches))
	return nil
}
