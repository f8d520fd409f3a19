// Command validate checks the game presets in a config directory
// (../configs by default, or the directory given as the first argument).
// For each *.json file it checks:
//   - JSON structure, rejecting unknown fields
//   - board dimensions, wall and boost counts against the capacity rule
//   - markers and the optional roster
//   - starting positions: boards are generated with fixed seeds and every
//     corner is checked for a legal first move
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/lastmove/game/engine"
)

// sampleSeeds is how many boards are generated per preset
const sampleSeeds = 20

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Name is required")
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	if result.Valid {
		starts := validateStarts(&config, sampleSeeds)
		if !starts.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, starts.Errors...)
	}

	if result.Valid {
		players := "asked at start"
		if config.HasRoster() {
			players = fmt.Sprintf("%d (%d bots)", len(config.Players)+config.Bots, config.Bots)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.Rows, config.Columns))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Walls: %d (%s)", config.Walls, config.WallMarker))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Boosts: %d (%s)", config.Boosts, config.BoostMarker))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %s", players))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Trail: %t", config.LeaveTrail))
	}

	return result
}

// validateStarts generates boards with seeds 1..seeds, places a full
// roster and counts the players that are boxed in before their first move.
// A boxed-in start is reported but only a generation failure is an error.
func validateStarts(config *engine.GameConfig, seeds int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	wall, boost, err := config.Markers()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	boxedIn := 0
	for seed := 1; seed <= seeds; seed++ {
		rng := engine.NewSeededRand(uint64(seed))

		grid, err := engine.Generate(config.Rows, config.Columns, config.Walls, config.Boosts, wall, boost, rng)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Generation failed with seed %d: %v", seed, err))
			return result
		}

		players, err := engine.NewRoster(nil, engine.MaxPlayers, []engine.Marker{engine.Empty, wall, boost}, rng)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Roster failed with seed %d: %v", seed, err))
			return result
		}

		eng, err := engine.NewEngine(grid, players, engine.WithTrail(config.LeaveTrail))
		if err == nil {
			err = eng.PlacePlayers()
		}
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Placement failed with seed %d: %v", seed, err))
			return result
		}

		for _, p := range eng.Players() {
			if moves, _ := eng.LegalMoves(p); len(moves) == 0 {
				boxedIn++
			}
		}
	}

	if boxedIn > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("⚠ Starts: %d of %d corner starts boxed in over %d boards", boxedIn, seeds*engine.MaxPlayers, seeds))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Starts: every corner has a first move over %d boards", seeds))
	}

	return result
}

// report prints one section per result and returns whether all were valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") && !strings.HasPrefix(err, "⚠") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

// main scans the config directory for *.json files and validates each one,
// exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}

	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}
