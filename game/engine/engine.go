package engine

import "fmt"

// Engine owns the grid and the roster for the lifetime of a match
type Engine struct {
	grid       *Grid
	players    []*Player
	leaveTrail bool
	history    []MoveHistoryEntry
}

// Option configures an Engine
type Option func(*Engine)

// WithTrail keeps a mover's symbol on every cell it leaves, so visited cells
// stay blocked for the rest of the match.
func WithTrail(enabled bool) Option {
	return func(e *Engine) {
		e.leaveTrail = enabled
	}
}

// NewEngine creates an engine for the given grid and roster.
// Players are not on the board until PlacePlayers is called.
func NewEngine(grid *Grid, players []*Player, opts ...Option) (*Engine, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: grid cannot be nil", ErrConfiguration)
	}
	if grid.Rows() < 2 || grid.Columns() < 2 {
		return nil, fmt.Errorf("%w: grid must be at least 2x2 to hold distinct corners, got %dx%d",
			ErrConfiguration, grid.Rows(), grid.Columns())
	}
	if grid.WallMarker() == grid.BoostMarker() {
		return nil, fmt.Errorf("%w: wall and boost markers must differ, both are %q",
			ErrConfiguration, grid.WallMarker())
	}
	if err := ValidateRoster(players, Empty, grid.WallMarker(), grid.BoostMarker()); err != nil {
		return nil, err
	}

	e := &Engine{
		grid:    grid,
		players: players,
		history: []MoveHistoryEntry{},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// corners maps a roster index to its starting cell
func (e *Engine) corners() []Position {
	last := Position{Row: e.grid.Rows() - 1, Col: e.grid.Columns() - 1}
	return []Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: last.Col},
		{Row: last.Row, Col: 0},
		{Row: last.Row, Col: last.Col},
	}
}

// PlacePlayers writes each player's symbol into its corner: index 0 top-left,
// 1 top-right, 2 bottom-left, 3 bottom-right. Whatever marker sat in the
// corner is overwritten; a boost lost that way no longer counts as remaining.
func (e *Engine) PlacePlayers() error {
	corners := e.corners()
	if len(e.players) > len(corners) {
		return fmt.Errorf("%w: %d players but only %d corners", ErrTooManyPlayers, len(e.players), len(corners))
	}

	for i, p := range e.players {
		pos := corners[i]
		if e.grid.At(pos) == e.grid.BoostMarker() {
			e.grid.boostsRemaining--
		}
		e.grid.set(pos, p.Symbol)
		p.Position = pos
	}

	return nil
}

// IsGameEnded reports whether at most one player is still in the match
func (e *Engine) IsGameEnded() bool {
	return CountEliminated(e.players) >= len(e.players)-1
}

// RemainingPlayers returns the names of players who are not eliminated, in
// roster order, skipping the player named exclude.
func (e *Engine) RemainingPlayers(exclude string) []string {
	var names []string
	for _, p := range e.players {
		if !p.Eliminated && p.Name != exclude {
			names = append(names, p.Name)
		}
	}
	return names
}

// Winner returns the last player standing once the game has ended
func (e *Engine) Winner() (*Player, bool) {
	if !e.IsGameEnded() {
		return nil, false
	}
	for _, p := range e.players {
		if !p.Eliminated {
			return p, true
		}
	}
	return nil, false
}

// Grid returns the board
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Players returns the roster in placement order
func (e *Engine) Players() []*Player {
	return e.players
}

// LeavesTrail reports whether vacated cells keep the mover's symbol
func (e *Engine) LeavesTrail() bool {
	return e.leaveTrail
}

// GetMoveHistory returns every applied move
func (e *Engine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *Engine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// Snapshot copies the current board and roster into a State
func (e *Engine) Snapshot() State {
	players := make([]PlayerView, len(e.players))
	for i, p := range e.players {
		players[i] = p.View()
	}

	state := State{
		Rows:            e.grid.Rows(),
		Columns:         e.grid.Columns(),
		Cells:           e.grid.Lines(),
		WallMarker:      e.grid.WallMarker().String(),
		BoostMarker:     e.grid.BoostMarker().String(),
		BoostsRemaining: e.grid.BoostsRemaining(),
		Players:         players,
		TotalMoves:      len(e.history),
		GameOver:        e.IsGameEnded(),
	}
	if state.GameOver {
		state.Winners = e.RemainingPlayers("")
	}

	return state
}
