package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
)

func TestHumanChooser(t *testing.T) {
	p, out := createTestPrompter("sideways\n LEFT \n")
	h := NewHumanChooser(p)

	turn := match.Turn{
		Player:  engine.PlayerView{Name: "Alice", Symbol: "A"},
		Moves:   []engine.Direction{engine.Down, engine.Left},
		Display: "Down Left",
	}

	d, err := h.Choose(context.Background(), turn)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if d.Valid() {
		t.Errorf("Expected an invalid direction for unparseable input, got %s", d)
	}
	if !strings.Contains(out.String(), "Alice, it's your turn to play! (Symbol A)\nChoose a direction to move to (Down Left):\n") {
		t.Errorf("Unexpected prompt %q", out.String())
	}

	out.Reset()
	turn.Rejected = 1
	d, err = h.Choose(context.Background(), turn)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if d != engine.Left {
		t.Errorf("Expected Left, got %s", d)
	}
	if out.String() != "Invalid direction. Please choose a valid direction (Down Left):\n" {
		t.Errorf("Unexpected prompt %q", out.String())
	}

	if _, err := h.Choose(context.Background(), turn); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Expected ErrInputClosed, got %v", err)
	}
}

func TestHumanChooser_Cancelled(t *testing.T) {
	p, out := createTestPrompter("up\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHumanChooser(p).Choose(ctx, match.Turn{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Error("Expected no prompt after cancellation")
	}
}
