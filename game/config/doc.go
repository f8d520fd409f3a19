// Package config manages the board presets of Last Move.
//
// The config package handles:
//   - Loading presets from JSON files in a directory
//   - Validating them with engine.ValidateGameConfig
//   - Caching loaded presets behind a read/write lock
//   - Picking a default preset
//
// Configuration Format:
//
// Each preset is a JSON file named after its ID (classic.json is the preset
// "classic"). A preset defines:
//   - Board dimensions (rows and columns, 5 to 30 each)
//   - Number of walls and boosts, and the characters drawn for them
//   - Whether movers leave a trail of blocked cells behind them
//   - Optionally a roster: named human players plus a number of bots
//
// A preset without a roster only describes the board; the players are then
// collected interactively.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	arena, err := manager.LoadConfig("arena")
//	presets, err := manager.ListConfigs()
//	fallback := manager.GetDefault()
//
// The default is classic.json when present, otherwise the first valid preset
// in the directory, otherwise engine.DefaultGameConfig.
package config
