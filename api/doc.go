// Package api serves a read-only spectator view of a running match.
//
// Endpoints:
//   - GET /api/match - match ID, status, current board state and, once the
//     match is over, its result
//   - GET /api/match/history - move history (page, limit, order=asc|desc)
//   - GET /api/configs - presets available in the config directory
//   - GET /api/configs/{name} - one preset
//   - GET /health - liveness
//   - GET /ws?match=<id> - WebSocket feed of match events
//
// Nothing here can change the game. Moves only come from the choosers the
// match was started with.
package api
