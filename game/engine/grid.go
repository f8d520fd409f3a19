package engine

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the source of randomness used for placement and bot decisions.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand returns a Rand backed by the runtime-seeded global generator
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic Rand for reproducible boards
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Grid is a rows x columns board of cell markers
type Grid struct {
	cells           [][]Marker
	rows            int
	columns         int
	wallMarker      Marker
	boostMarker     Marker
	boostsRemaining int
}

// NewGrid creates an empty grid without any walls or boosts.
// It performs no capacity checks; use Generate for a playable board.
func NewGrid(rows, columns int, wallMarker, boostMarker Marker) *Grid {
	cells := make([][]Marker, rows)
	for r := range cells {
		cells[r] = make([]Marker, columns)
		for c := range cells[r] {
			cells[r][c] = Empty
		}
	}

	return &Grid{
		cells:       cells,
		rows:        rows,
		columns:     columns,
		wallMarker:  wallMarker,
		boostMarker: boostMarker,
	}
}

// NewGridFromLayout builds a grid from rows of text. Any character other than
// the wall and boost markers is treated as empty.
func NewGridFromLayout(layout []string, wallMarker, boostMarker Marker) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrConfiguration)
	}

	width := len([]rune(layout[0]))
	grid := NewGrid(len(layout), width, wallMarker, boostMarker)
	for r, line := range layout {
		row := []rune(line)
		if len(row) != width {
			return nil, fmt.Errorf("%w: layout row %d has %d cells, expected %d", ErrConfiguration, r+1, len(row), width)
		}
		for c, ch := range row {
			switch Marker(ch) {
			case wallMarker:
				grid.cells[r][c] = wallMarker
			case boostMarker:
				grid.cells[r][c] = boostMarker
				grid.boostsRemaining++
			}
		}
	}

	return grid, nil
}

// Generate builds a board and scatters boosts, then walls, over random empty
// cells. It fails with ErrConfiguration when walls+boosts+SafetyMargin does
// not fit in rows*columns or when either dimension is below 1 or exceeds
// MaxGridSize.
// A nil rng uses DefaultRand.
func Generate(rows, columns, walls, boosts int, wallMarker, boostMarker Marker, rng Rand) (*Grid, error) {
	if rows < 1 || columns < 1 {
		return nil, fmt.Errorf("%w: rows and columns must be positive, got %dx%d",
			ErrConfiguration, rows, columns)
	}
	if walls < 0 || boosts < 0 {
		return nil, fmt.Errorf("%w: wall and boost counts must not be negative, got %d walls and %d boosts",
			ErrConfiguration, walls, boosts)
	}
	if boosts+walls+SafetyMargin >= rows*columns {
		return nil, fmt.Errorf("%w: board isn't big enough to contain all of these objects, board has %d cells but %d items were requested",
			ErrConfiguration, rows*columns, boosts+walls)
	}
	if rows > MaxGridSize || columns > MaxGridSize {
		return nil, fmt.Errorf("%w: board is too big, rows and columns must not exceed %d, got %dx%d",
			ErrConfiguration, MaxGridSize, rows, columns)
	}

	if rng == nil {
		rng = DefaultRand()
	}

	grid := NewGrid(rows, columns, wallMarker, boostMarker)

	for i := 0; i < boosts; i++ {
		pos := grid.randomCell(rng)
		for grid.At(pos) == boostMarker {
			pos = grid.randomCell(rng)
		}
		grid.set(pos, boostMarker)
	}

	// Boosts are already down, so walls must avoid them as well
	for i := 0; i < walls; i++ {
		pos := grid.randomCell(rng)
		for m := grid.At(pos); m == wallMarker || m == boostMarker; m = grid.At(pos) {
			pos = grid.randomCell(rng)
		}
		grid.set(pos, wallMarker)
	}

	grid.boostsRemaining = boosts
	return grid, nil
}

// randomCell draws a row, then a column
func (g *Grid) randomCell(rng Rand) Position {
	r := rng.IntN(g.rows)
	c := rng.IntN(g.columns)
	return Position{Row: r, Col: c}
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// Columns returns the number of columns
func (g *Grid) Columns() int {
	return g.columns
}

// WallMarker returns the marker used for walls
func (g *Grid) WallMarker() Marker {
	return g.wallMarker
}

// BoostMarker returns the marker used for boosts
func (g *Grid) BoostMarker() Marker {
	return g.boostMarker
}

// BoostsRemaining returns the number of boosts nobody has collected yet
func (g *Grid) BoostsRemaining() int {
	return g.boostsRemaining
}

// InBounds reports whether pos lies on the grid
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.columns
}

// At returns the marker at pos. It panics when pos is out of bounds.
func (g *Grid) At(pos Position) Marker {
	return g.cells[pos.Row][pos.Col]
}

func (g *Grid) set(pos Position, m Marker) {
	g.cells[pos.Row][pos.Col] = m
}

// Count returns how many cells hold marker m
func (g *Grid) Count(m Marker) int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell == m {
				count++
			}
		}
	}
	return count
}

// Lines renders each row of the grid as a string
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	for r, row := range g.cells {
		runes := make([]rune, len(row))
		for c, cell := range row {
			runes[c] = rune(cell)
		}
		lines[r] = string(runes)
	}
	return lines
}
