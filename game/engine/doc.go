// Package engine provides the core board logic for lastmove.
//
// The engine package implements the game mechanics including:
//   - Grid generation with randomly scattered walls and boosts
//   - Legal move derivation in a fixed Up, Down, Left, Right order
//   - Move application with boost pickup and wall penalties
//   - Elimination bookkeeping and last-player-standing detection
//   - Game configuration loading and validation
//
// Core Types:
//
// Grid holds the cell markers of the board. Engine owns a Grid together with
// the roster of Players and is the only thing that mutates either of them.
// GameConfig describes a board and roster and is loaded from JSON presets.
//
// Usage:
//
//	grid, err := engine.Generate(10, 10, 8, 6, '#', '+', nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(grid, players)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := eng.PlacePlayers(); err != nil {
//		log.Fatal(err)
//	}
//
//	moves, display := eng.LegalMoves(players[0])
//	if len(moves) > 0 {
//		eng.ApplyMove(players[0], moves[0])
//	}
//
// Game Rules:
//
// Players start in the corners of the board and take turns moving one cell
// orthogonally. A move may only enter an empty cell or a boost. Picking up a
// boost adds one to the player's boost count, running into a wall removes one
// (never below zero). A player with no legal move is eliminated, and the match
// ends when a single player is left.
//
// The Engine is not safe for concurrent use. Callers that need to share state
// across goroutines should publish Snapshot values instead.
package engine
