package terminal

import (
	"fmt"
	"strings"

	"github.com/wricardo/lastmove/game/engine"
)

// SetupBoard asks for the board dimensions, object counts and markers. It
// starts over when the answers do not describe a valid board.
func SetupBoard(p *Prompter) (*engine.GameConfig, error) {
	for {
		config, err := askBoard(p)
		if err != nil {
			return nil, err
		}
		if err := engine.ValidateBoard(config); err != nil {
			p.Clear()
			p.Printf("%v\nLet's try again. Press enter to continue.\n", err)
			if _, err := p.Line(); err != nil {
				return nil, err
			}
			continue
		}
		return config, nil
	}
}

func askBoard(p *Prompter) (*engine.GameConfig, error) {
	config := &engine.GameConfig{
		Name:        "custom",
		Description: "Board set up interactively",
	}
	var err error

	p.Clear()
	p.Println("Choose the number of rows the board should have:")
	if config.Rows, err = p.Int(engine.MinGridSize, engine.MaxGridSize); err != nil {
		return nil, err
	}

	p.Clear()
	p.Println("Choose the number of columns the board should have:")
	if config.Columns, err = p.Int(engine.MinGridSize, engine.MaxGridSize); err != nil {
		return nil, err
	}

	cells := config.Rows * config.Columns

	p.Clear()
	p.Println("Choose the number of walls the board should have:")
	if config.Walls, err = p.Int(0, cells); err != nil {
		return nil, err
	}

	p.Clear()
	p.Println("Choose a symbol to display the walls")
	if config.WallMarker, err = askMarker(p); err != nil {
		return nil, err
	}

	p.Clear()
	p.Println("Choose the number of boosts the board should have:")
	if config.Boosts, err = p.Int(0, cells); err != nil {
		return nil, err
	}

	p.Clear()
	p.Println("Choose a symbol to display the boosts")
	if config.BoostMarker, err = askMarker(p); err != nil {
		return nil, err
	}

	return config, nil
}

func askMarker(p *Prompter) (string, error) {
	for {
		s, err := p.Char()
		if err != nil {
			return "", err
		}
		if _, err := engine.ParseMarker(s); err == nil {
			return s, nil
		}
		p.Println("Please enter a visible character")
	}
}

// SetupRoster asks how many players and bots take part, then collects name,
// color and symbol for every human. Answers already taken by an earlier
// player, or clashing with the board markers, are asked again.
func SetupRoster(p *Prompter, config *engine.GameConfig, color bool) error {
	wall, boost, err := config.Markers()
	if err != nil {
		return err
	}

	p.Clear()
	p.Printf("How many users will be playing, bots included? (%d-%d)\n", engine.MinPlayers, engine.MaxPlayers)
	total, err := p.Int(engine.MinPlayers, engine.MaxPlayers)
	if err != nil {
		return err
	}

	p.Clear()
	p.Printf("How many bots will be playing? (0-%d)\n", total)
	bots, err := p.Int(0, total)
	if err != nil {
		return err
	}

	names := make(map[string]bool)
	colors := make(map[engine.Color]bool)
	symbols := map[engine.Marker]bool{engine.Empty: true, wall: true, boost: true}

	var players []engine.PlayerConfig
	for i := 0; i < total-bots; i++ {
		p.Clear()
		p.Printf("Enter username for player %d\n", i+1)
		name, err := p.Text()
		if err != nil {
			return err
		}
		for names[name] {
			p.Clear()
			p.Println("Username already taken. Please enter a different username")
			if name, err = p.Text(); err != nil {
				return err
			}
		}

		p.Clear()
		printColorChoices(p, color)
		c, err := askColor(p)
		if err != nil {
			return err
		}
		for colors[c] {
			p.Clear()
			p.Println("Color already taken. Please enter a different color")
			printColorChoices(p, color)
			if c, err = askColor(p); err != nil {
				return err
			}
		}

		p.Clear()
		p.Println("Enter a symbol for the player (only one character):")
		symbol, err := askMarker(p)
		if err != nil {
			return err
		}
		for symbols[engine.Marker([]rune(symbol)[0])] {
			p.Clear()
			p.Println("Symbol already taken. Please enter a different symbol")
			if symbol, err = askMarker(p); err != nil {
				return err
			}
		}

		names[name] = true
		colors[c] = true
		symbols[engine.Marker([]rune(symbol)[0])] = true
		players = append(players, engine.PlayerConfig{Name: name, Color: string(c), Symbol: symbol})
	}

	config.Players = players
	config.Bots = bots
	return nil
}

func askColor(p *Prompter) (engine.Color, error) {
	n, err := p.Int(1, len(engine.Colors))
	if err != nil {
		return "", err
	}
	return engine.Colors[n-1], nil
}

// printColorChoices lists the colors in two columns, numbered from 1
func printColorChoices(p *Prompter, color bool) {
	p.Println("Enter a number for the color of the player:")

	half := (len(engine.Colors) + 1) / 2
	for i := 0; i < half; i++ {
		line := colorChoice(i, color)
		if j := i + half; j < len(engine.Colors) {
			line += "   " + colorChoice(j, color)
		}
		p.Println(line)
	}
}

func colorChoice(i int, color bool) string {
	c := engine.Colors[i]
	name := string(c)
	label := strings.ToUpper(name[:1]) + name[1:]
	padded := fmt.Sprintf("%-8s", label)
	if color {
		padded = foreground(c, label) + strings.Repeat(" ", 8-len(label))
	}
	return fmt.Sprintf("%d. %s", i+1, padded)
}
