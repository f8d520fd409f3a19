package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameConfig represents a board and roster setup, loaded from JSON presets
// or filled in interactively.
type GameConfig struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Rows        int            `json:"rows"`
	Columns     int            `json:"columns"`
	Walls       int            `json:"walls"`
	Boosts      int            `json:"boosts"`
	WallMarker  string         `json:"wall_marker"`
	BoostMarker string         `json:"boost_marker"`
	LeaveTrail  bool           `json:"leave_trail"`
	Bots        int            `json:"bots"`
	Players     []PlayerConfig `json:"players,omitempty"`
}

// HasRoster reports whether the config names any players or bots
func (c *GameConfig) HasRoster() bool {
	return len(c.Players)+c.Bots > 0
}

// Markers parses the wall and boost markers
func (c *GameConfig) Markers() (wall, boost Marker, err error) {
	wall, err = ParseMarker(c.WallMarker)
	if err != nil {
		return 0, 0, fmt.Errorf("wall_marker: %w", err)
	}
	boost, err = ParseMarker(c.BoostMarker)
	if err != nil {
		return 0, 0, fmt.Errorf("boost_marker: %w", err)
	}
	return wall, boost, nil
}

// ValidateBoard checks dimensions, counts and markers
func ValidateBoard(config *GameConfig) error {
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d", ErrConfiguration, MinGridSize, MaxGridSize, config.Rows)
	}
	if config.Columns < MinGridSize || config.Columns > MaxGridSize {
		return fmt.Errorf("%w: columns must be between %d and %d, got %d", ErrConfiguration, MinGridSize, MaxGridSize, config.Columns)
	}

	cells := config.Rows * config.Columns
	if config.Walls < 0 || config.Walls > cells {
		return fmt.Errorf("%w: walls must be between 0 and %d, got %d", ErrConfiguration, cells, config.Walls)
	}
	if config.Boosts < 0 || config.Boosts > cells {
		return fmt.Errorf("%w: boosts must be between 0 and %d, got %d", ErrConfiguration, cells, config.Boosts)
	}
	if config.Walls+config.Boosts+SafetyMargin >= cells {
		return fmt.Errorf("%w: board has %d cells but %d walls and boosts were requested, at most %d fit",
			ErrConfiguration, cells, config.Walls+config.Boosts, cells-SafetyMargin-1)
	}

	wall, boost, err := config.Markers()
	if err != nil {
		return err
	}
	if wall == boost {
		return fmt.Errorf("%w: wall_marker and boost_marker must differ, both are %q", ErrConfiguration, wall)
	}

	return nil
}

// ValidateGameConfig validates a game configuration. The roster part is only
// checked when the config names players or bots; otherwise the roster is
// expected to come from the interactive setup.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrConfiguration)
	}
	if strings.TrimSpace(config.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if err := ValidateBoard(config); err != nil {
		return err
	}
	if !config.HasRoster() {
		return nil
	}

	if config.Bots < 0 {
		return fmt.Errorf("%w: bots must not be negative, got %d", ErrConfiguration, config.Bots)
	}
	total := len(config.Players) + config.Bots
	if total < MinPlayers || total > MaxPlayers {
		return fmt.Errorf("%w: players plus bots must be between %d and %d, got %d",
			ErrConfiguration, MinPlayers, MaxPlayers, total)
	}

	wall, boost, _ := config.Markers()
	players := make([]*Player, 0, len(config.Players))
	for i, pc := range config.Players {
		color, err := ParseColor(pc.Color)
		if err != nil {
			return fmt.Errorf("%w: player %d: %v", ErrConfiguration, i+1, err)
		}
		symbol, err := ParseMarker(pc.Symbol)
		if err != nil {
			return fmt.Errorf("player %d symbol: %w", i+1, err)
		}
		players = append(players, NewPlayer(strings.TrimSpace(pc.Name), color, symbol, false))
	}

	// Bots are added later, only the named humans can clash here
	return checkUnique(players, Empty, wall, boost)
}

// NewEngineFromConfig generates the board, builds the roster and places the
// players in their corners.
func NewEngineFromConfig(config *GameConfig, rng Rand) (*Engine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRand()
	}

	wall, boost, err := config.Markers()
	if err != nil {
		return nil, err
	}

	grid, err := Generate(config.Rows, config.Columns, config.Walls, config.Boosts, wall, boost, rng)
	if err != nil {
		return nil, err
	}

	players, err := NewRoster(config.Players, config.Bots, []Marker{Empty, wall, boost}, rng)
	if err != nil {
		return nil, err
	}

	eng, err := NewEngine(grid, players, WithTrail(config.LeaveTrail))
	if err != nil {
		return nil, err
	}
	if err := eng.PlacePlayers(); err != nil {
		return nil, err
	}

	return eng, nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the built-in board used when no preset is available
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Built-in 10x10 board",
		Rows:        10,
		Columns:     10,
		Walls:       12,
		Boosts:      6,
		WallMarker:  DefaultWallMarker.String(),
		BoostMarker: DefaultBoostMarker.String(),
	}
}
