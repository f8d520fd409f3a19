package engine

import "strings"

// JoinNames formats player names for display, e.g. "Alice, Bob".
// An empty list yields an empty string.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}

// CountEliminated counts the eliminated players of a roster
func CountEliminated(players []*Player) int {
	count := 0
	for _, p := range players {
		if p.Eliminated {
			count++
		}
	}
	return count
}
