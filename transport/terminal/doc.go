// Package terminal is the keyboard and screen front end of Last Move.
//
// It provides:
//   - Prompter, reading numbers, characters and text from a line based
//     input and asking again until the answer is acceptable
//   - SetupBoard and SetupRoster, the interactive questions that fill an
//     engine.GameConfig when no preset is used
//   - Renderer, drawing the board with box-drawing characters; it is a
//     match.Observer and redraws the screen as the match goes on
//   - HumanChooser, the match.Chooser for players at the keyboard
//   - NewOutput, which enables ANSI colors only when writing to a terminal
//
// Board Drawing:
//
//	┌───┬───┬───┐
//	│ A │ # │ B │
//	├───┼───┼───┤
//	│   │ + │   │
//	└───┴───┴───┘
//
// Players are drawn by their position. In trail mode the cells a player left
// behind are painted in the player's color.
package terminal
