package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
)

// Renderer draws the board as a box-drawing grid. It implements
// match.Observer so it can follow a match as it is played.
type Renderer struct {
	out   io.Writer
	color bool
	clear bool
}

// NewRenderer creates a renderer writing to out. With color enabled, trail
// cells are painted in their owner's color instead of showing the symbol.
func NewRenderer(out io.Writer, color, clear bool) *Renderer {
	return &Renderer{out: out, color: color, clear: clear}
}

// Render writes the board of state
func (r *Renderer) Render(state engine.State) {
	fmt.Fprint(r.out, r.Board(state))
}

// Board returns the drawing of the board of state
func (r *Renderer) Board(state engine.State) string {
	if state.Rows == 0 || state.Columns == 0 {
		return ""
	}

	owners := make(map[string]engine.Color, len(state.Players))
	for _, p := range state.Players {
		owners[p.Symbol] = p.Color
	}

	var b strings.Builder
	segment := "───"

	b.WriteString("┌")
	b.WriteString(strings.Repeat(segment+"┬", state.Columns-1))
	b.WriteString(segment + "┐\n")

	for row, line := range state.Cells {
		cells := []rune(line)
		b.WriteString("│")
		for col, cell := range cells {
			b.WriteString(r.cell(state, engine.Position{Row: row, Col: col}, string(cell), owners))
			b.WriteString("│")
		}
		b.WriteString("\n")

		if row+1 != len(state.Cells) {
			b.WriteString("├" + segment)
			b.WriteString(strings.Repeat("┼"+segment, state.Columns-1))
			b.WriteString("┤\n")
		}
	}

	b.WriteString("└")
	b.WriteString(strings.Repeat(segment+"┴", state.Columns-1))
	b.WriteString(segment + "┘\n")

	return b.String()
}

func (r *Renderer) cell(state engine.State, pos engine.Position, cell string, owners map[string]engine.Color) string {
	if p, ok := state.PlayerAt(pos); ok {
		return " " + p.Symbol + " "
	}
	if c, ok := owners[cell]; ok && r.color {
		// Trail left by a player
		return background(c, "   ")
	}
	return " " + cell + " "
}

// Observe redraws the board on every event a player needs to see and prints
// eliminations and the final result.
func (r *Renderer) Observe(ev match.Event) {
	switch ev.Type {
	case match.EventStart, match.EventTurn, match.EventRejected:
		r.redraw(ev.State)
	case match.EventEliminated:
		r.redraw(ev.State)
		fmt.Fprintf(r.out, "%s has lost!\n", ev.Player)
		fmt.Fprintf(r.out, "Remaining players: %s\n", engine.JoinNames(ev.Remaining))
	case match.EventGameOver:
		r.redraw(ev.State)
		r.printResult(ev)
	}
}

func (r *Renderer) redraw(state *engine.State) {
	if state == nil {
		return
	}
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}
	r.Render(*state)
}

func (r *Renderer) printResult(ev match.Event) {
	fmt.Fprintln(r.out, "Game over!")

	if len(ev.Winners) == 1 {
		fmt.Fprintf(r.out, "The winner is: %s\n", r.green(ev.Winners[0]))
		return
	}
	fmt.Fprintf(r.out, "Round limit reached. Still standing: %s\n", r.green(engine.JoinNames(ev.Winners)))
}

func (r *Renderer) green(s string) string {
	if !r.color {
		return s
	}
	return foreground(engine.Green, s)
}
