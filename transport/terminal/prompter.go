package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInputClosed is returned once the input reaches EOF
var ErrInputClosed = errors.New("input closed")

// Prompter reads answers line by line and keeps asking until an answer is
// acceptable.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	clear bool
}

// NewPrompter creates a prompter. When clear is set, Clear wipes the screen.
func NewPrompter(in io.Reader, out io.Writer, clear bool) *Prompter {
	return &Prompter{
		in:    bufio.NewScanner(in),
		out:   out,
		clear: clear,
	}
}

// Out returns the writer prompts are printed to
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Clear wipes the screen and moves the cursor home
func (p *Prompter) Clear() {
	if p.clear {
		fmt.Fprint(p.out, clearScreen)
	}
}

// Println prints a line of prompt text
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf prints formatted prompt text
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Line reads one line with surrounding whitespace removed
func (p *Prompter) Line() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// LineContext is Line that gives up when ctx is done. The abandoned read
// keeps the input, so the prompter must not be used after cancellation.
func (p *Prompter) LineContext(ctx context.Context) (string, error) {
	type answer struct {
		line string
		err  error
	}

	ch := make(chan answer, 1)
	go func() {
		line, err := p.Line()
		ch <- answer{line, err}
	}()

	select {
	case a := <-ch:
		return a.line, a.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Int reads a whole number between min and max inclusive
func (p *Prompter) Int(min, max int) (int, error) {
	for {
		line, err := p.Line()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		p.Printf("Please enter a number between %d and %d\n", min, max)
	}
}

// Text reads a non-empty line
func (p *Prompter) Text() (string, error) {
	for {
		line, err := p.Line()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		p.Println("Please enter a value")
	}
}

// Char reads a single character
func (p *Prompter) Char() (string, error) {
	for {
		line, err := p.Line()
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(line) == 1 {
			return line, nil
		}
		p.Println("Please enter exactly one character")
	}
}
