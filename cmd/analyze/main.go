// Command analyze plays seeded bot-only matches on each preset in the
// configs directory and prints how they went: average length, how often
// each corner wins, and how often nobody or the round limit ends the game.
// It helps spot presets where one corner is favored or games drag on.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/lastmove/game/config"
	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
)

// seatNames follows the order players are placed in corners
var seatNames = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

// Summary aggregates the simulated matches of one preset
type Summary struct {
	Preset     string
	Games      int
	Players    int
	Rounds     int
	Moves      int
	Wins       []int
	RoundLimit int
}

// AvgRounds returns the mean number of rounds per game
func (s *Summary) AvgRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Games)
}

// AvgMoves returns the mean number of moves per game
func (s *Summary) AvgMoves() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Moves) / float64(s.Games)
}

// simulate plays games bot-only matches on the preset's board. Game i uses
// seed+i so runs are reproducible. The preset's roster size is kept, four
// bots are used when it has none.
func simulate(ctx context.Context, preset *engine.GameConfig, games int, seed uint64, maxRounds int) (*Summary, error) {
	players := len(preset.Players) + preset.Bots
	if players == 0 {
		players = engine.MaxPlayers
	}

	board := *preset
	board.Players = nil
	board.Bots = players

	summary := &Summary{
		Preset:  preset.Name,
		Players: players,
		Wins:    make([]int, players),
	}

	for i := 0; i < games; i++ {
		rng := engine.NewSeededRand(seed + uint64(i))

		eng, err := engine.NewEngineFromConfig(&board, rng)
		if err != nil {
			return nil, err
		}

		seats := make(map[string]int, players)
		choosers := make([]match.Chooser, players)
		for j, p := range eng.Players() {
			seats[p.Name] = j
			choosers[j] = match.NewRandomChooser(rng)
		}

		m, err := match.New(eng, choosers, match.WithMaxRounds(maxRounds))
		if err != nil {
			return nil, err
		}
		result, err := m.Run(ctx)
		if err != nil {
			return nil, err
		}

		summary.Games++
		summary.Rounds += result.Rounds
		summary.Moves += result.Moves

		if result.RoundLimitReached {
			summary.RoundLimit++
		} else {
			summary.Wins[seats[result.Winners[0]]]++
		}
	}

	return summary, nil
}

func printSummary(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", s.Preset)
	fmt.Fprintf(w, "Games: %d with %d bots\n", s.Games, s.Players)
	fmt.Fprintf(w, "Average rounds: %.1f\n", s.AvgRounds())
	fmt.Fprintf(w, "Average moves: %.1f\n", s.AvgMoves())

	for i, wins := range s.Wins {
		fmt.Fprintf(w, "Wins %-13s %d\n", seatNames[i]+":", wins)
	}
	if s.RoundLimit > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d of %d games hit the round limit\n", s.RoundLimit, s.Games)
	}

	// A seat winning more than twice its fair share is worth a look
	for i, wins := range s.Wins {
		if s.Games >= 10 && wins*len(s.Wins) > 2*s.Games {
			fmt.Fprintf(w, "⚠️  WARNING: %s wins %d of %d games\n", seatNames[i], wins, s.Games)
		}
	}
}

func analyze(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, info := range configs {
		preset, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return err
		}

		summary, err := simulate(ctx, preset, cmd.Int("games"), cmd.Uint64("seed"), cmd.Int("max-rounds"))
		if err != nil {
			return fmt.Errorf("%s: %w", info.ConfigID, err)
		}
		printSummary(cmd.Root().Writer, summary)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "simulate bot matches on every preset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "matches per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "seed of the first match"},
			&cli.IntFlag{Name: "max-rounds", Value: 500, Usage: "round limit per match"},
			&cli.BoolFlag{Name: "debug"},
		},
		Action: analyze,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("analyze failed")
	}
}
