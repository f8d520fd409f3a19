// Command lastmove plays a last-player-standing grid game in the terminal.
//
// Players take turns moving one cell up, down, left or right. Boosts are
// collected by stepping on them and spent to break through walls. A player
// with no legal move is eliminated and the last one standing wins.
//
// The board comes from a preset in the config directory (--config) or is
// set up interactively, or --quick plays the default preset. Presets without
// a roster ask for players at start.
// With --spectate the match is also served read-only over HTTP and
// WebSocket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/lastmove/api"
	"github.com/wricardo/lastmove/game/config"
	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
	"github.com/wricardo/lastmove/transport/terminal"
	"github.com/wricardo/lastmove/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "lastmove"
)

// app holds the process streams so tests can swap them
type app struct {
	in io.Reader
	// output returns the writer to draw on and whether it understands ANSI
	// colors
	output func(noColor bool) (io.Writer, bool)
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	a := &app{
		in: os.Stdin,
		output: func(noColor bool) (io.Writer, bool) {
			return terminal.NewOutput(os.Stdout, noColor)
		},
	}

	if err := a.command().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("lastmove failed")
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "last player standing on a grid of walls and boosts",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "preset name in the config directory, or a path to a preset file",
				Sources: cli.EnvVars("LASTMOVE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "quick",
				Usage:   "skip board setup and play the default preset",
				Sources: cli.EnvVars("LASTMOVE_QUICK"),
			},
			&cli.StringFlag{
				Name:    "default",
				Usage:   "preset played by --quick instead of " + config.DefaultConfigName,
				Sources: cli.EnvVars("LASTMOVE_DEFAULT"),
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for board generation, bot rosters and bot moves",
			},
			&cli.StringFlag{
				Name:    "spectate",
				Usage:   "serve a read-only spectator feed on `ADDR` (e.g. localhost:8080)",
				Sources: cli.EnvVars("LASTMOVE_SPECTATE"),
			},
			&cli.IntFlag{
				Name:  "max-rounds",
				Usage: "stop after this many rounds, 0 for no limit",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("LASTMOVE_DEBUG"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to `FILE` instead of stderr",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Action: a.play,
		Commands: []*cli.Command{
			{
				Name:   "configs",
				Usage:  "list the presets in the config directory",
				Action: a.listConfigs,
				Commands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "set up a board interactively and save it as a preset",
						ArgsUsage: "NAME",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "description",
								Usage: "description shown in the preset listing",
							},
							&cli.BoolFlag{
								Name:  "trail",
								Usage: "players leave a blocking trail behind them",
							},
							&cli.BoolFlag{
								Name:  "force",
								Usage: "overwrite an existing preset",
							},
						},
						Action: a.createConfig,
					},
				},
			},
		},
	}
}

// play sets up a match and runs it to the end
func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := setupLogging(cmd.Bool("debug"), cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	out, color := a.output(cmd.Bool("no-color"))
	prompter := terminal.NewPrompter(a.in, out, color)

	rng := engine.DefaultRand()
	if cmd.IsSet("seed") {
		rng = engine.NewSeededRand(cmd.Uint64("seed"))
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		log.WithError(err).Warn("Presets unavailable")
		manager = nil
	}

	source := configSource{
		name:        cmd.String("config"),
		quick:       cmd.Bool("quick"),
		defaultName: cmd.String("default"),
	}
	gameConfig, err := resolveConfig(prompter, manager, source, color)
	if err != nil {
		return quitOnClosedInput(prompter, err)
	}

	eng, err := engine.NewEngineFromConfig(gameConfig, rng)
	if err != nil {
		return err
	}

	choosers := make([]match.Chooser, len(eng.Players()))
	human := terminal.NewHumanChooser(prompter)
	for i, p := range eng.Players() {
		if p.Bot {
			choosers[i] = match.NewRandomChooser(rng)
		} else {
			choosers[i] = human
		}
	}

	opts := []match.Option{match.WithObserver(terminal.NewRenderer(out, color, color))}
	if n := cmd.Int("max-rounds"); n > 0 {
		opts = append(opts, match.WithMaxRounds(n))
	}

	m, err := match.New(eng, choosers, opts...)
	if err != nil {
		return err
	}

	// Interrupts during setup keep their default behavior; from here on they
	// end the match and shut the spectator server down.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"match":  m.ID(),
		"config": gameConfig.Name,
		"size":   fmt.Sprintf("%dx%d", gameConfig.Rows, gameConfig.Columns),
	}).Info("Match created")

	if addr := cmd.String("spectate"); addr != "" {
		stopServer, err := spectate(ctx, m, manager, addr)
		if err != nil {
			return err
		}
		defer stopServer()
		prompter.Printf("Spectators: http://%s/api/match  ws://%s/ws?match=%s\n", addr, addr, m.ID())
	}

	if _, err := m.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			prompter.Println()
			prompter.Println("Game interrupted.")
			return nil
		}
		return quitOnClosedInput(prompter, err)
	}

	return nil
}

// configSource says where the board comes from
type configSource struct {
	// name is a preset name or a path to a preset file
	name string
	// quick plays the default preset instead of asking for a board
	quick       bool
	defaultName string
}

// resolveConfig picks the board from a preset, the default preset or the
// setup prompts, then asks for players when the board has no roster
func resolveConfig(p *terminal.Prompter, manager *config.Manager, source configSource, color bool) (*engine.GameConfig, error) {
	var gameConfig *engine.GameConfig
	var err error

	name := source.name
	switch {
	case name != "" && (strings.HasSuffix(name, ".json") || strings.ContainsRune(name, filepath.Separator)):
		gameConfig, err = engine.LoadGameConfig(name)
	case name != "" && manager == nil:
		err = fmt.Errorf("%w: no config directory to load %q from", config.ErrConfigNotFound, name)
	case name != "":
		gameConfig, err = manager.LoadConfig(name)
	case source.quick:
		gameConfig, err = defaultConfig(manager, source.defaultName)
	default:
		gameConfig, err = terminal.SetupBoard(p)
	}
	if err != nil {
		return nil, err
	}

	if !gameConfig.HasRoster() {
		if err := terminal.SetupRoster(p, gameConfig, color); err != nil {
			return nil, err
		}
	}

	return gameConfig, nil
}

// defaultConfig returns the manager's default preset, switched to
// defaultName first when one is given. Without a config directory the
// built-in board is used.
func defaultConfig(manager *config.Manager, defaultName string) (*engine.GameConfig, error) {
	if manager == nil {
		if defaultName != "" {
			return nil, fmt.Errorf("%w: no config directory to load %q from", config.ErrConfigNotFound, defaultName)
		}
		return engine.DefaultGameConfig(), nil
	}

	if defaultName != "" {
		if err := manager.SetDefault(defaultName); err != nil {
			return nil, err
		}
	}
	return manager.GetDefault(), nil
}

// spectate starts the hub and spectator server and returns a function that
// stops both and waits for the server to close
func spectate(ctx context.Context, m *match.Match, manager *config.Manager, addr string) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	var configs api.ConfigSource
	if manager != nil {
		configs = manager
	}
	server := api.NewServer(m, configs, hub)
	m.AddObserver(server)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("spectator server: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(ctx, ln); err != nil {
			log.WithError(err).Warn("Spectator server failed")
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// listConfigs prints the presets found in the config directory
func (a *app) listConfigs(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := setupLogging(cmd.Bool("debug"), cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	out, _ := a.output(true)

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		fmt.Fprintf(out, "No presets in %s\n", manager.Dir())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tWALLS\tBOOSTS\tPLAYERS\tTRAIL\tDESCRIPTION")
	for _, c := range configs {
		players := "ask"
		if c.Players > 0 {
			players = fmt.Sprint(c.Players)
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%s\t%t\t%s\n",
			c.ConfigID, c.Name, c.Rows, c.Columns, c.Walls, c.Boosts, players, c.LeaveTrail, c.Description)
	}
	return w.Flush()
}

// createConfig asks for a board and saves it in the config directory
func (a *app) createConfig(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := setupLogging(cmd.Bool("debug"), cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("%w: a preset name is required", config.ErrInvalidConfig)
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	if _, err := manager.LoadConfig(name); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%w: preset %q already exists, use --force to replace it", config.ErrInvalidConfig, name)
	}

	out, color := a.output(cmd.Bool("no-color"))
	prompter := terminal.NewPrompter(a.in, out, color)

	gameConfig, err := terminal.SetupBoard(prompter)
	if err != nil {
		return quitOnClosedInput(prompter, err)
	}
	gameConfig.Name = name
	gameConfig.Description = cmd.String("description")
	gameConfig.LeaveTrail = cmd.Bool("trail")

	if err := manager.SaveConfig(name, gameConfig); err != nil {
		return err
	}

	log.WithFields(log.Fields{"preset": name, "dir": manager.Dir()}).Info("Preset saved")
	prompter.Printf("Saved preset %s in %s\n", name, manager.Dir())
	return nil
}

// quitOnClosedInput turns a closed stdin into a clean exit
func quitOnClosedInput(p *terminal.Prompter, err error) error {
	if errors.Is(err, terminal.ErrInputClosed) {
		p.Println()
		p.Println("Input closed, quitting.")
		return nil
	}
	return err
}
