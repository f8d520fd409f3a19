package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/lastmove/game/engine"
)

var (
	ErrChooserMismatch   = errors.New("exactly one chooser per player is required")
	ErrTooManyRejections = errors.New("too many illegal choices")
	ErrAlreadyStarted    = errors.New("match already started")
)

// Status is the lifecycle stage of a match
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusAborted  Status = "aborted"
)

// Result summarizes a finished match
type Result struct {
	MatchID string `json:"match_id"`
	// Winners holds the last player standing, or everyone still on the
	// board when the round limit stopped the match.
	Winners           []string `json:"winners"`
	Rounds            int      `json:"rounds"`
	Moves             int      `json:"moves"`
	RoundLimitReached bool     `json:"round_limit_reached"`
}

// Match drives an engine through rounds of turns until one player is left.
//
// Only the goroutine calling Run touches the engine. Other goroutines read
// the published snapshot through State, History and Status.
type Match struct {
	id            string
	engine        *engine.Engine
	choosers      []Chooser
	maxRounds     int
	maxRejections int

	mu        sync.RWMutex
	observers []Observer
	status    Status
	round     int
	state     engine.State
	history   []engine.MoveHistoryEntry
	result    *Result
}

// Option configures a Match
type Option func(*Match)

// WithID overrides the generated match id
func WithID(id string) Option {
	return func(m *Match) {
		m.id = id
	}
}

// WithObserver registers an observer before the match starts
func WithObserver(o Observer) Option {
	return func(m *Match) {
		m.observers = append(m.observers, o)
	}
}

// WithMaxRounds stops the match after n full rounds. Zero means no limit.
func WithMaxRounds(n int) Option {
	return func(m *Match) {
		m.maxRounds = n
	}
}

// WithMaxRejections aborts the match when a player gives n illegal answers
// in a single turn. Zero means ask forever.
func WithMaxRejections(n int) Option {
	return func(m *Match) {
		m.maxRejections = n
	}
}

// New creates a match over an engine whose players are already placed.
// choosers[i] decides for the i-th player of the roster.
func New(eng *engine.Engine, choosers []Chooser, opts ...Option) (*Match, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if len(choosers) != len(eng.Players()) {
		return nil, fmt.Errorf("%w: %d players, %d choosers", ErrChooserMismatch, len(eng.Players()), len(choosers))
	}
	for i, c := range choosers {
		if c == nil {
			return nil, fmt.Errorf("%w: chooser %d is nil", ErrChooserMismatch, i+1)
		}
	}

	m := &Match{
		id:       uuid.NewString(),
		engine:   eng,
		choosers: choosers,
		status:   StatusPending,
		history:  []engine.MoveHistoryEntry{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = m.snapshot(0)

	return m, nil
}

// ID returns the match id
func (m *Match) ID() string {
	return m.id
}

// AddObserver registers an observer. Observers added while the match is
// running start receiving events from the next one.
func (m *Match) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Status returns the lifecycle stage
func (m *Match) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Round returns the round being played, 0 before the first one
func (m *Match) Round() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.round
}

// State returns the latest published snapshot
func (m *Match) State() engine.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// History returns a copy of every move applied so far
func (m *Match) History() []engine.MoveHistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.MoveHistoryEntry(nil), m.history...)
}

// HistoryPage returns one page of the move history
func (m *Match) HistoryPage(opts HistoryOptions) *HistoryResponse {
	m.mu.RLock()
	page := Paginate(m.history, opts)
	m.mu.RUnlock()

	page.MatchID = m.id
	return page
}

// Result returns the outcome once the match has finished
func (m *Match) Result() (*Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result, m.result != nil
}

// Run plays rounds until at most one player is left, the round limit is hit,
// a chooser fails or ctx is cancelled. Each round walks the roster in order:
// eliminated players are skipped, players without a legal move are
// eliminated, everyone else moves once.
func (m *Match) Run(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	if m.status != StatusPending {
		m.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	m.status = StatusRunning
	m.mu.Unlock()

	logger := log.WithField("match", m.id)
	players := m.engine.Players()
	logger.WithField("players", len(players)).Debug("Match started")

	m.emit(Event{
		Type:    EventStart,
		Message: fmt.Sprintf("%d players enter the board", len(players)),
	}, true)

	limitReached := false
	round := 0
	for !m.engine.IsGameEnded() {
		if m.maxRounds > 0 && round >= m.maxRounds {
			limitReached = true
			break
		}
		round++
		m.setRound(round)

		for i, p := range players {
			if p.Eliminated {
				continue
			}
			if err := m.playTurn(ctx, i, p); err != nil {
				m.setStatus(StatusAborted)
				logger.WithError(err).Warn("Match aborted")
				return nil, err
			}
			if m.engine.IsGameEnded() {
				break
			}
		}
	}

	return m.finish(round, limitReached), nil
}

func (m *Match) playTurn(ctx context.Context, idx int, p *engine.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	round := m.Round()
	logger := log.WithFields(log.Fields{"match": m.id, "player": p.Name, "round": round})

	moves, display := m.engine.LegalMoves(p)
	if len(moves) == 0 {
		p.Eliminate()
		remaining := m.engine.RemainingPlayers(p.Name)
		logger.Debug("Player eliminated")

		m.publish()
		m.emit(Event{
			Type:      EventEliminated,
			Player:    p.Name,
			Message:   fmt.Sprintf("%s has lost! Remaining players: %s", p.Name, engine.JoinNames(remaining)),
			Remaining: remaining,
		}, true)
		return nil
	}

	turn := Turn{
		MatchID: m.id,
		Round:   round,
		Player:  p.View(),
		Moves:   moves,
		Display: display,
	}
	m.emit(Event{
		Type:    EventTurn,
		Player:  p.Name,
		Message: fmt.Sprintf("%s, it's your turn to play! (Symbol %c)", p.Name, p.Symbol),
	}, true)

	for {
		d, err := m.choosers[idx].Choose(ctx, turn)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
		if engine.ContainsDirection(moves, d) {
			m.apply(p, d)
			return nil
		}

		turn.Rejected++
		logger.WithField("dir", d).Debug("Rejected illegal direction")
		m.emit(Event{
			Type:    EventRejected,
			Player:  p.Name,
			Message: fmt.Sprintf("Invalid direction. Please choose a valid direction (%s)", display),
		}, true)

		if m.maxRejections > 0 && turn.Rejected >= m.maxRejections {
			return fmt.Errorf("player %s: %w", p.Name, ErrTooManyRejections)
		}
	}
}

func (m *Match) apply(p *engine.Player, d engine.Direction) {
	m.engine.ApplyMove(p, d)
	last := m.engine.GetLastMove()

	log.WithFields(log.Fields{
		"match":  m.id,
		"player": p.Name,
		"dir":    d,
		"to":     fmt.Sprintf("%d,%d", last.ToPosition.Row, last.ToPosition.Col),
	}).Debug("Move applied")

	m.mu.Lock()
	m.history = append(m.history, *last)
	m.mu.Unlock()
	m.publish()

	to := last.ToPosition
	ev := Event{
		Type:      EventMove,
		Player:    p.Name,
		Direction: d.String(),
		Position:  &to,
		Message:   fmt.Sprintf("%s moved %s", p.Name, d),
	}
	switch last.Collected {
	case "boost":
		ev.Type = EventBoost
		ev.Message = fmt.Sprintf("%s collected a boost (%d total)", p.Name, p.Boosts)
	case "wall":
		ev.Type = EventWall
		ev.Message = fmt.Sprintf("%s broke through a wall (%d boosts left)", p.Name, p.Boosts)
	}
	m.emit(ev, true)
}

func (m *Match) finish(rounds int, limitReached bool) *Result {
	winners := []string{}
	if winner, ok := m.engine.Winner(); ok {
		winners = append(winners, winner.Name)
	} else {
		winners = append(winners, m.engine.RemainingPlayers("")...)
	}

	result := &Result{
		MatchID:           m.id,
		Winners:           winners,
		Rounds:            rounds,
		Moves:             len(m.engine.GetMoveHistory()),
		RoundLimitReached: limitReached,
	}

	state := m.snapshot(rounds)
	state.GameOver = true
	state.Winners = winners

	m.mu.Lock()
	m.state = state
	m.status = StatusFinished
	m.result = result
	m.mu.Unlock()

	message := fmt.Sprintf("Game over! The winner is: %s", engine.JoinNames(winners))
	if limitReached {
		message = fmt.Sprintf("Round limit reached. Remaining players: %s", engine.JoinNames(winners))
	}

	log.WithFields(log.Fields{
		"match":   m.id,
		"rounds":  rounds,
		"moves":   result.Moves,
		"winners": engine.JoinNames(winners),
	}).Info("Match finished")

	m.emit(Event{
		Type:    EventGameOver,
		Message: message,
		Winners: winners,
	}, true)

	return result
}

func (m *Match) snapshot(round int) engine.State {
	state := m.engine.Snapshot()
	state.Round = round
	return state
}

// publish replaces the shared snapshot with the engine's current state
func (m *Match) publish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = m.snapshot(m.round)
}

func (m *Match) setRound(round int) {
	m.mu.Lock()
	m.round = round
	m.state.Round = round
	m.mu.Unlock()
}

func (m *Match) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

func (m *Match) emit(ev Event, withState bool) {
	m.mu.RLock()
	ev.MatchID = m.id
	ev.Round = m.round
	if withState {
		state := m.state
		ev.State = &state
	}
	observers := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()

	ev.Timestamp = time.Now()
	for _, o := range observers {
		o.Observe(ev)
	}
}
