package engine

import (
	"fmt"
	"strings"
	"time"
)

// CanMoveTo reports whether a player may step onto pos: it must be on the
// grid and hold either nothing or a boost.
func (e *Engine) CanMoveTo(pos Position) bool {
	if !e.grid.InBounds(pos) {
		return false
	}
	m := e.grid.At(pos)
	return m == Empty || m == e.grid.BoostMarker()
}

// LegalMoves returns the directions p can move in, evaluated Up, Down, Left,
// Right, together with their space separated names for display. An empty
// result means the player is stuck; eliminating them is up to the caller.
func (e *Engine) LegalMoves(p *Player) ([]Direction, string) {
	var moves []Direction
	names := make([]string, 0, len(Directions))

	for _, d := range Directions {
		if e.CanMoveTo(p.Position.Neighbor(d)) {
			moves = append(moves, d)
			names = append(names, d.String())
		}
	}

	return moves, strings.Join(names, " ")
}

// ApplyMove moves p one cell in direction d. A boost on the destination is
// collected, a wall on it costs one boost. The caller must only pass moves
// reported by LegalMoves; stepping off the board or onto another player
// panics with ErrIllegalMove.
func (e *Engine) ApplyMove(p *Player, d Direction) {
	if !d.Valid() {
		panic(fmt.Errorf("%w: %v", ErrUnknownDirection, d))
	}
	if p.Eliminated {
		panic(fmt.Errorf("%w: %s is eliminated", ErrIllegalMove, p.Name))
	}

	from := p.Position
	to := from.Neighbor(d)
	if !e.grid.InBounds(to) {
		panic(fmt.Errorf("%w: %s cannot move %s from (%d,%d), off the board",
			ErrIllegalMove, p.Name, d, from.Row, from.Col))
	}

	collected := ""
	switch m := e.grid.At(to); m {
	case e.grid.BoostMarker():
		e.grid.boostsRemaining--
		p.addBoost()
		collected = "boost"
	case e.grid.WallMarker():
		p.removeBoost()
		collected = "wall"
	case Empty:
	default:
		panic(fmt.Errorf("%w: %s cannot move %s from (%d,%d), cell is taken by %q",
			ErrIllegalMove, p.Name, d, from.Row, from.Col, m))
	}

	e.grid.set(to, p.Symbol)
	if !e.leaveTrail {
		e.grid.set(from, Empty)
	}
	p.Position = to

	e.addMoveToHistory(p, d, from, to, collected)
}

// addMoveToHistory records an applied move
func (e *Engine) addMoveToHistory(p *Player, d Direction, from, to Position, collected string) {
	e.history = append(e.history, MoveHistoryEntry{
		Player:       p.Name,
		Action:       d,
		FromPosition: from,
		ToPosition:   to,
		Collected:    collected,
		Boosts:       p.Boosts,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   len(e.history) + 1,
	})
}
