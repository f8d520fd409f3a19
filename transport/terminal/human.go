package terminal

import (
	"context"

	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
)

// unparsed is handed back for answers that name no direction at all, so
// the match rejects them like any other illegal choice.
const unparsed engine.Direction = -1

// HumanChooser asks a player at the keyboard for their move
type HumanChooser struct {
	prompter *Prompter
}

// NewHumanChooser creates a chooser reading answers from p
func NewHumanChooser(p *Prompter) *HumanChooser {
	return &HumanChooser{prompter: p}
}

// Choose prints the turn prompt and reads one answer
func (h *HumanChooser) Choose(ctx context.Context, turn match.Turn) (engine.Direction, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if turn.Rejected == 0 {
		h.prompter.Printf("%s, it's your turn to play! (Symbol %s)\n", turn.Player.Name, turn.Player.Symbol)
		h.prompter.Printf("Choose a direction to move to (%s):\n", turn.Display)
	} else {
		h.prompter.Printf("Invalid direction. Please choose a valid direction (%s):\n", turn.Display)
	}

	line, err := h.prompter.LineContext(ctx)
	if err != nil {
		return 0, err
	}

	d, err := engine.ParseDirection(line)
	if err != nil {
		return unparsed, nil
	}
	return d, nil
}
