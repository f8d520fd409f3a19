package engine

import (
	"fmt"
	"strings"
)

const botSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Player is a participant in a match
type Player struct {
	Name       string   `json:"name"`
	Symbol     Marker   `json:"symbol"`
	Color      Color    `json:"color"`
	Bot        bool     `json:"bot"`
	Position   Position `json:"position"`
	Boosts     int      `json:"boosts"`
	Eliminated bool     `json:"eliminated"`
}

// PlayerConfig describes a human player in a GameConfig
type PlayerConfig struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Symbol string `json:"symbol"`
}

// NewPlayer creates a player that has not been placed yet
func NewPlayer(name string, color Color, symbol Marker, bot bool) *Player {
	return &Player{
		Name:   name,
		Symbol: symbol,
		Color:  color,
		Bot:    bot,
	}
}

// Eliminate marks the player as out of the match. It cannot be undone.
func (p *Player) Eliminate() {
	p.Eliminated = true
}

func (p *Player) addBoost() {
	p.Boosts++
}

// removeBoost never takes the count below zero
func (p *Player) removeBoost() {
	if p.Boosts > 0 {
		p.Boosts--
	}
}

// View returns a read-only copy of the player
func (p *Player) View() PlayerView {
	return PlayerView{
		Name:       p.Name,
		Symbol:     p.Symbol.String(),
		Color:      p.Color,
		Bot:        p.Bot,
		Position:   p.Position,
		Boosts:     p.Boosts,
		Eliminated: p.Eliminated,
	}
}

// ValidateRoster checks roster size and that names, symbols and colors are
// pairwise distinct. Symbols must not collide with any of the reserved markers.
func ValidateRoster(players []*Player, reserved ...Marker) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return fmt.Errorf("%w: roster must have between %d and %d players, got %d",
			ErrConfiguration, MinPlayers, MaxPlayers, len(players))
	}
	return checkUnique(players, reserved...)
}

func checkUnique(players []*Player, reserved ...Marker) error {
	names := make(map[string]bool)
	symbols := make(map[Marker]bool)
	colors := make(map[Color]bool)
	for _, m := range reserved {
		symbols[m] = true
	}

	for i, p := range players {
		if p == nil {
			return fmt.Errorf("%w: player %d is nil", ErrConfiguration, i+1)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrConfiguration, i+1)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: player name %q is already taken", ErrConfiguration, p.Name)
		}
		if symbols[p.Symbol] {
			return fmt.Errorf("%w: symbol %q of player %s is already taken", ErrConfiguration, p.Symbol, p.Name)
		}
		if colors[p.Color] {
			return fmt.Errorf("%w: color %s of player %s is already taken", ErrConfiguration, p.Color, p.Name)
		}
		names[p.Name] = true
		symbols[p.Symbol] = true
		colors[p.Color] = true
	}

	return nil
}

// NewRoster builds the players of a match: humans first, in the given order,
// followed by bots named "Bot 1", "Bot 2"... Bots get a random color and a
// random alphanumeric symbol nobody else uses. Reserved markers (walls,
// boosts) are never handed out as symbols.
func NewRoster(humans []PlayerConfig, bots int, reserved []Marker, rng Rand) ([]*Player, error) {
	if bots < 0 {
		return nil, fmt.Errorf("%w: bot count must not be negative, got %d", ErrConfiguration, bots)
	}
	total := len(humans) + bots
	if total < MinPlayers || total > MaxPlayers {
		return nil, fmt.Errorf("%w: roster must have between %d and %d players, got %d",
			ErrConfiguration, MinPlayers, MaxPlayers, total)
	}
	if rng == nil {
		rng = DefaultRand()
	}

	players := make([]*Player, 0, total)
	for i, h := range humans {
		color, err := ParseColor(h.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: player %d: %v", ErrConfiguration, i+1, err)
		}
		symbol, err := ParseMarker(h.Symbol)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		players = append(players, NewPlayer(strings.TrimSpace(h.Name), color, symbol, false))
	}

	for i := 0; i < bots; i++ {
		color := Colors[rng.IntN(len(Colors))]
		for colorTaken(players, color) {
			color = Colors[rng.IntN(len(Colors))]
		}

		symbol := randomSymbol(rng)
		for symbolTaken(players, reserved, symbol) {
			symbol = randomSymbol(rng)
		}

		players = append(players, NewPlayer(fmt.Sprintf("Bot %d", i+1), color, symbol, true))
	}

	if err := ValidateRoster(players, append([]Marker{Empty}, reserved...)...); err != nil {
		return nil, err
	}
	return players, nil
}

func randomSymbol(rng Rand) Marker {
	return Marker(botSymbols[rng.IntN(len(botSymbols))])
}

func colorTaken(players []*Player, c Color) bool {
	for _, p := range players {
		if p.Color == c {
			return true
		}
	}
	return false
}

func symbolTaken(players []*Player, reserved []Marker, m Marker) bool {
	for _, r := range reserved {
		if r == m {
			return true
		}
	}
	for _, p := range players {
		if p.Symbol == m {
			return true
		}
	}
	return false
}
