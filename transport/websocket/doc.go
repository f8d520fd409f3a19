// Package websocket pushes match updates to spectators.
//
// A central Hub owns every connection and groups them by match ID. The
// match goroutine never talks to sockets directly: it hands events to the
// hub through a buffered channel, and the hub fans each message out to the
// clients watching that match. When the queue is full the message is
// dropped rather than stalling the game.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//   - {"type": "state", "match_id": "...", "state": {...}} on connect
//   - {"type": "event", "match_id": "...", "event": {...}} for every match event
//
// Spectators are read-only. Anything a client sends is discarded; the read
// loop only exists to notice disconnects and answer pings.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	m, _ := match.New(eng, choosers, match.WithObserver(hub))
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		state := m.State()
//		hub.ServeWS(w, r, m.ID(), &state)
//	})
package websocket
