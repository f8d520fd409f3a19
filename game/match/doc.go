// Package match runs a Last Move game from the first turn to the last
// player standing.
//
// A Match owns an engine.Engine with its players already placed and asks one
// Chooser per player for a direction each turn. Humans are played through a
// terminal Chooser, bots through RandomChooser.
//
// Turn Order:
//
// Every round walks the roster in placement order:
//   - eliminated players are skipped
//   - a player with no legal move is eliminated and the remaining players
//     are announced
//   - otherwise the player's Chooser is asked until it returns one of the
//     legal directions, which is then applied
//
// The match ends as soon as at most one player is left, checked after every
// turn. WithMaxRounds bounds matches that could otherwise wander forever
// (vacated cells are freed unless the board leaves a trail).
//
// Events:
//
// Observers receive an Event for every step (start, turn, rejected, move,
// boost, wall, eliminated, game_over), each carrying a State snapshot. The
// terminal renderer and the spectator hub are both observers.
//
// Usage:
//
//	eng, err := engine.NewEngineFromConfig(cfg, nil)
//	choosers := []match.Chooser{human, match.NewRandomChooser(nil)}
//	m, err := match.New(eng, choosers, match.WithObserver(renderer))
//	result, err := m.Run(ctx)
//
// State, History and Status are safe to call from other goroutines while
// Run is in progress.
package match
