package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/wricardo/lastmove/game/engine"
)

const (
	clearScreen = "\x1B[2J\x1B[1;1H"
	resetColor  = "\x1B[0m"
)

var colorCodes = map[engine.Color]int{
	engine.Black:   0,
	engine.Red:     1,
	engine.Green:   2,
	engine.Yellow:  3,
	engine.Blue:    4,
	engine.Magenta: 5,
	engine.Cyan:    6,
	engine.White:   7,
}

// NewOutput wraps f for colored output. Color is enabled only when f is a
// terminal and noColor is false; otherwise escape sequences written to the
// returned writer are stripped.
func NewOutput(f *os.File, noColor bool) (io.Writer, bool) {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	if noColor || !tty {
		return colorable.NewNonColorable(f), false
	}
	return colorable.NewColorable(f), true
}

// foreground wraps s in the ANSI foreground color c
func foreground(c engine.Color, s string) string {
	code, ok := colorCodes[c]
	if !ok {
		return s
	}
	return fmt.Sprintf("\x1B[%dm%s%s", 30+code, s, resetColor)
}

// background wraps s in the ANSI background color c
func background(c engine.Color, s string) string {
	code, ok := colorCodes[c]
	if !ok {
		return s
	}
	return fmt.Sprintf("\x1B[%dm%s%s", 40+code, s, resetColor)
}
