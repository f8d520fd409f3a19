package match

import (
	"time"

	"github.com/wricardo/lastmove/game/engine"
)

// EventType names what happened during a match
type EventType string

const (
	EventStart      EventType = "start"
	EventTurn       EventType = "turn"
	EventRejected   EventType = "rejected"
	EventMove       EventType = "move"
	EventBoost      EventType = "boost"
	EventWall       EventType = "wall"
	EventEliminated EventType = "eliminated"
	EventGameOver   EventType = "game_over"
)

// Event represents something that occurred during a match.
// State is the snapshot taken right after the event, if the event changed
// or revealed the board.
type Event struct {
	Type      EventType        `json:"type"`
	MatchID   string           `json:"match_id"`
	Round     int              `json:"round"`
	Player    string           `json:"player,omitempty"`
	Message   string           `json:"message"`
	Direction string           `json:"direction,omitempty"`
	Position  *engine.Position `json:"position,omitempty"`
	Remaining []string         `json:"remaining,omitempty"`
	Winners   []string         `json:"winners,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	State     *engine.State    `json:"state,omitempty"`
}

// Observer receives match events in the order they happen. Observers run on
// the match goroutine and must not block.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(ev Event)

// Observe calls f(ev)
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}
