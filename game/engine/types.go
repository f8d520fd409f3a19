package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker is the character held by a grid cell
type Marker rune

const (
	// Empty marks a free cell
	Empty Marker = ' '

	DefaultWallMarker  Marker = '#'
	DefaultBoostMarker Marker = '+'

	// Validation constants
	MinGridSize = 5
	MaxGridSize = 30
	MinPlayers  = 2
	MaxPlayers  = 4

	// SafetyMargin is the number of cells kept free of walls and boosts
	SafetyMargin = 20
)

var (
	// ErrConfiguration is returned for any setup problem detected before a match starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrTooManyPlayers is returned when the roster does not fit into the board corners.
	ErrTooManyPlayers = fmt.Errorf("%w: too many players", ErrConfiguration)

	// ErrIllegalMove is the panic value used when a caller applies a move the engine never offered.
	ErrIllegalMove = errors.New("illegal move")

	ErrUnknownDirection = errors.New("unknown direction")
	ErrUnknownColor     = errors.New("unknown color")
)

// String returns the marker as a one character string
func (m Marker) String() string {
	return string(m)
}

// ParseMarker converts a one character string into a Marker.
// Whitespace is rejected since it would be indistinguishable from an empty cell.
func ParseMarker(s string) (Marker, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: marker must be a single character, got %q", ErrConfiguration, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return 0, fmt.Errorf("%w: marker must be a printable character, got %q", ErrConfiguration, s)
	}
	return Marker(r), nil
}

// Position represents row/column coordinates on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Neighbor returns the adjacent position in the given direction
func (p Position) Neighbor(d Direction) Position {
	dRow, dCol := d.Offset()
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Color tags a player's glyph and trail when rendered
type Color string

const (
	Black   Color = "black"
	White   Color = "white"
	Blue    Color = "blue"
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Magenta Color = "magenta"
	Cyan    Color = "cyan"
)

// Colors lists every selectable color in menu order
var Colors = []Color{Black, White, Blue, Red, Green, Yellow, Magenta, Cyan}

// ParseColor returns the Color with the given (case-insensitive) name
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Colors {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// PlayerView is a read-only copy of a player used by renderers and spectators
type PlayerView struct {
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
	Color      Color    `json:"color"`
	Bot        bool     `json:"bot"`
	Position   Position `json:"position"`
	Boosts     int      `json:"boosts"`
	Eliminated bool     `json:"eliminated"`
}

// State is an immutable snapshot of a match
type State struct {
	Rows            int          `json:"rows"`
	Columns         int          `json:"columns"`
	Cells           []string     `json:"cells"`
	WallMarker      string       `json:"wall_marker"`
	BoostMarker     string       `json:"boost_marker"`
	BoostsRemaining int          `json:"boosts_remaining"`
	Players         []PlayerView `json:"players"`
	Round           int          `json:"round"`
	TotalMoves      int          `json:"total_moves"`
	GameOver        bool         `json:"game_over"`
	Winners         []string     `json:"winners,omitempty"`
}

// PlayerAt returns the view of the player standing on pos, if any
func (s State) PlayerAt(pos Position) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Position == pos {
			return p, true
		}
	}
	return PlayerView{}, false
}

// MoveHistoryEntry represents a single applied move
type MoveHistoryEntry struct {
	Player       string    `json:"player"`
	Action       Direction `json:"action"`
	FromPosition Position  `json:"from_position"`
	ToPosition   Position  `json:"to_position"`
	Collected    string    `json:"collected,omitempty"` // "boost" or "wall"
	Boosts       int       `json:"boosts"`
	Timestamp    int64     `json:"timestamp"`
	MoveNumber   int       `json:"move_number"`
}
