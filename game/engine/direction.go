package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the four orthogonal moves
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in evaluation order
var Directions = [...]Direction{Up, Down, Left, Right}

var directionOffsets = [...]struct{ dRow, dCol int }{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

var directionNames = [...]string{
	Up:    "Up",
	Down:  "Down",
	Left:  "Left",
	Right: "Right",
}

// Valid reports whether d is one of Up, Down, Left or Right
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Offset returns the (row, column) delta of a single step in direction d.
// It panics on an invalid direction.
func (d Direction) Offset() (int, int) {
	if !d.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownDirection, int(d)))
	}
	o := directionOffsets[d]
	return o.dRow, o.dCol
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts user input such as "up" or " Right " into a Direction
func ParseDirection(s string) (Direction, error) {
	name := strings.TrimSpace(s)
	for _, d := range Directions {
		if strings.EqualFold(name, directionNames[d]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// ContainsDirection reports whether d is part of moves
func ContainsDirection(moves []Direction, d Direction) bool {
	for _, m := range moves {
		if m == d {
			return true
		}
	}
	return false
}
