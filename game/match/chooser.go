package match

import (
	"context"
	"errors"

	"github.com/wricardo/lastmove/game/engine"
)

// ErrNoMoves is returned by a Chooser asked to pick from an empty move set
var ErrNoMoves = errors.New("no legal moves")

// Turn is what a Chooser gets to decide on
type Turn struct {
	MatchID string
	Round   int
	Player  engine.PlayerView
	Moves   []engine.Direction
	// Display lists Moves by name, space separated
	Display string
	// Rejected counts earlier answers to this turn that were not legal
	Rejected int
}

// Chooser picks the direction for a player's turn. The returned direction
// is checked against Turn.Moves; an illegal answer makes the match ask again.
type Chooser interface {
	Choose(ctx context.Context, turn Turn) (engine.Direction, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(ctx context.Context, turn Turn) (engine.Direction, error)

// Choose calls f(ctx, turn)
func (f ChooserFunc) Choose(ctx context.Context, turn Turn) (engine.Direction, error) {
	return f(ctx, turn)
}

// RandomChooser plays bots by picking uniformly among the legal moves
type RandomChooser struct {
	rng engine.Rand
}

// NewRandomChooser creates a bot chooser. A nil rng uses engine.DefaultRand.
func NewRandomChooser(rng engine.Rand) *RandomChooser {
	if rng == nil {
		rng = engine.DefaultRand()
	}
	return &RandomChooser{rng: rng}
}

func (c *RandomChooser) Choose(ctx context.Context, turn Turn) (engine.Direction, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(turn.Moves) == 0 {
		return 0, ErrNoMoves
	}
	return turn.Moves[c.rng.IntN(len(turn.Moves))], nil
}
