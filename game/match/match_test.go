package match

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/wricardo/lastmove/game/engine"
)

// recorder collects every event it observes
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

func (r *recorder) find(t EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Type == t {
			return ev, true
		}
	}
	return Event{}, false
}

// scripted answers with the given directions in order and fails once they run out
func scripted(dirs ...engine.Direction) ChooserFunc {
	next := 0
	return func(ctx context.Context, turn Turn) (engine.Direction, error) {
		if next >= len(dirs) {
			return 0, errors.New("script exhausted")
		}
		d := dirs[next]
		next++
		return d, nil
	}
}

func createTestEngine(t *testing.T, layout []string, n int, opts ...engine.Option) *engine.Engine {
	t.Helper()

	grid, err := engine.NewGridFromLayout(layout, '#', '+')
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	all := []*engine.Player{
		engine.NewPlayer("Alice", engine.Red, 'A', false),
		engine.NewPlayer("Bob", engine.Blue, 'B', false),
		engine.NewPlayer("Carol", engine.Green, 'C', true),
		engine.NewPlayer("Dave", engine.Yellow, 'D', true),
	}

	eng, err := engine.NewEngine(grid, all[:n], opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if err := eng.PlacePlayers(); err != nil {
		t.Fatalf("Failed to place players: %v", err)
	}
	return eng
}

// Bob starts walled in at the top-right corner
var bobStuckLayout = []string{
	"   # ",
	"+   #",
	"     ",
	"     ",
	"     ",
}

var openLayout = []string{
	"     ",
	"     ",
	"     ",
	"     ",
	"     ",
}

func TestNew(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)

	m, err := New(eng, []Chooser{scripted(), scripted()})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if m.ID() == "" {
		t.Error("Expected a generated match id")
	}
	if m.Status() != StatusPending {
		t.Errorf("Expected pending, got %s", m.Status())
	}
	if m.State().Cells[0] != "A   B" {
		t.Errorf("Expected initial snapshot, got %q", m.State().Cells[0])
	}

	named, err := New(eng, []Chooser{scripted(), scripted()}, WithID("fixed"))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if named.ID() != "fixed" {
		t.Errorf("Expected id 'fixed', got %s", named.ID())
	}
}

func TestNew_Invalid(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)

	if _, err := New(nil, nil); err == nil {
		t.Error("Expected error for nil engine")
	}
	if _, err := New(eng, []Chooser{scripted()}); !errors.Is(err, ErrChooserMismatch) {
		t.Errorf("Expected ErrChooserMismatch, got %v", err)
	}
	if _, err := New(eng, []Chooser{scripted(), nil}); !errors.Is(err, ErrChooserMismatch) {
		t.Errorf("Expected ErrChooserMismatch for nil chooser, got %v", err)
	}
}

func TestRun_EliminatesStuckPlayer(t *testing.T) {
	eng := createTestEngine(t, bobStuckLayout, 2)
	rec := &recorder{}

	m, err := New(eng, []Chooser{scripted(engine.Right), scripted()}, WithObserver(rec))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	result, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(result.Winners, []string{"Alice"}) {
		t.Errorf("Expected Alice to win, got %v", result.Winners)
	}
	if result.Rounds != 1 || result.Moves != 1 {
		t.Errorf("Expected 1 round and 1 move, got %d and %d", result.Rounds, result.Moves)
	}
	if result.RoundLimitReached {
		t.Error("Expected no round limit")
	}

	expected := []EventType{EventStart, EventTurn, EventMove, EventEliminated, EventGameOver}
	if got := rec.types(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected events %v, got %v", expected, got)
	}

	eliminated, _ := rec.find(EventEliminated)
	if eliminated.Player != "Bob" {
		t.Errorf("Expected Bob to be eliminated, got %s", eliminated.Player)
	}
	if eliminated.Message != "Bob has lost! Remaining players: Alice" {
		t.Errorf("Unexpected message %q", eliminated.Message)
	}
	if !reflect.DeepEqual(eliminated.Remaining, []string{"Alice"}) {
		t.Errorf("Unexpected remaining %v", eliminated.Remaining)
	}

	gameOver, _ := rec.find(EventGameOver)
	if gameOver.Message != "Game over! The winner is: Alice" {
		t.Errorf("Unexpected message %q", gameOver.Message)
	}
	if gameOver.State == nil || !gameOver.State.GameOver {
		t.Error("Expected final state on game_over event")
	}

	if m.Status() != StatusFinished {
		t.Errorf("Expected finished, got %s", m.Status())
	}
	if got, ok := m.Result(); !ok || got != result {
		t.Error("Expected Result to return the run result")
	}

	state := m.State()
	if !state.GameOver || state.Round != 1 || state.TotalMoves != 1 {
		t.Errorf("Unexpected final state %+v", state)
	}
	if len(m.History()) != 1 {
		t.Errorf("Expected 1 move in history, got %d", len(m.History()))
	}
}

func TestRun_RejectsIllegalChoice(t *testing.T) {
	eng := createTestEngine(t, bobStuckLayout, 2)
	rec := &recorder{}

	var rejectedCounts []int
	alice := scripted(engine.Up, engine.Right)
	observed := ChooserFunc(func(ctx context.Context, turn Turn) (engine.Direction, error) {
		rejectedCounts = append(rejectedCounts, turn.Rejected)
		if turn.Display != "Down Right" {
			t.Errorf("Unexpected display %q", turn.Display)
		}
		return alice(ctx, turn)
	})

	m, err := New(eng, []Chooser{observed, scripted()}, WithObserver(rec))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(rejectedCounts, []int{0, 1}) {
		t.Errorf("Expected Alice to be asked twice, got %v", rejectedCounts)
	}

	rejected, ok := rec.find(EventRejected)
	if !ok {
		t.Fatal("Expected a rejected event")
	}
	if rejected.Message != "Invalid direction. Please choose a valid direction (Down Right)" {
		t.Errorf("Unexpected message %q", rejected.Message)
	}

	if pos := eng.Players()[0].Position; pos != (engine.Position{Row: 0, Col: 1}) {
		t.Errorf("Expected Alice at (0,1), got %+v", pos)
	}
}

func TestRun_TooManyRejections(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)
	alwaysUp := ChooserFunc(func(ctx context.Context, turn Turn) (engine.Direction, error) {
		return engine.Up, nil
	})

	m, err := New(eng, []Chooser{alwaysUp, alwaysUp}, WithMaxRejections(3))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	_, err = m.Run(context.Background())
	if !errors.Is(err, ErrTooManyRejections) {
		t.Errorf("Expected ErrTooManyRejections, got %v", err)
	}
	if m.Status() != StatusAborted {
		t.Errorf("Expected aborted, got %s", m.Status())
	}
	if _, ok := m.Result(); ok {
		t.Error("Expected no result for an aborted match")
	}
}

func TestRun_BoostAndWallEvents(t *testing.T) {
	eng := createTestEngine(t, []string{
		"   # ",
		"+   #",
		"#    ",
		"     ",
		"     ",
	}, 3)
	rec := &recorder{}

	// Alice: boost, then wall. Bob is stuck in round 1. Carol idles.
	alice := scripted(engine.Down, engine.Down)
	carol := scripted(engine.Right, engine.Left)

	m, err := New(eng, []Chooser{alice, scripted(), carol}, WithObserver(rec))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	_, err = m.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Alice's script to run out")
	}

	boost, ok := rec.find(EventBoost)
	if !ok {
		t.Fatal("Expected a boost event")
	}
	if boost.Player != "Alice" || boost.Message != "Alice collected a boost (1 total)" {
		t.Errorf("Unexpected boost event %+v", boost)
	}
	if boost.Position == nil || *boost.Position != (engine.Position{Row: 1, Col: 0}) {
		t.Errorf("Unexpected boost position %v", boost.Position)
	}

	wall, ok := rec.find(EventWall)
	if !ok {
		t.Fatal("Expected a wall event")
	}
	if wall.Message != "Alice broke through a wall (0 boosts left)" {
		t.Errorf("Unexpected wall message %q", wall.Message)
	}
	if wall.Round != 2 {
		t.Errorf("Expected wall in round 2, got %d", wall.Round)
	}
}

func TestRun_RoundLimit(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)
	bot := NewRandomChooser(engine.NewSeededRand(3))

	m, err := New(eng, []Chooser{bot, bot}, WithMaxRounds(3))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	result, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.RoundLimitReached {
		t.Error("Expected round limit to be reached")
	}
	if result.Rounds != 3 || result.Moves != 6 {
		t.Errorf("Expected 3 rounds and 6 moves, got %d and %d", result.Rounds, result.Moves)
	}
	if !reflect.DeepEqual(result.Winners, []string{"Alice", "Bob"}) {
		t.Errorf("Expected both players to remain, got %v", result.Winners)
	}
	if !m.State().GameOver {
		t.Error("Expected final state to be over")
	}
}

func TestRun_TrailBotsFinish(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		eng := createTestEngine(t, openLayout, 4, engine.WithTrail(true))
		rng := engine.NewSeededRand(seed)
		bot := NewRandomChooser(rng)

		m, err := New(eng, []Chooser{bot, bot, bot, bot})
		if err != nil {
			t.Fatalf("Failed to create match: %v", err)
		}

		result, err := m.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: Run failed: %v", seed, err)
		}
		winner, ok := eng.Winner()
		if !ok {
			t.Fatalf("seed %d: expected the engine to name a winner", seed)
		}
		if !reflect.DeepEqual(result.Winners, []string{winner.Name}) {
			t.Errorf("seed %d: expected %s as the only winner, got %v", seed, winner.Name, result.Winners)
		}
		if result.Moves > 21 {
			t.Errorf("seed %d: %d moves on 21 free cells", seed, result.Moves)
		}
		if !eng.IsGameEnded() {
			t.Errorf("seed %d: expected engine to report the game as ended", seed)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := New(eng, []Chooser{scripted(), scripted()})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	if _, err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if m.Status() != StatusAborted {
		t.Errorf("Expected aborted, got %s", m.Status())
	}
}

func TestRun_ChooserError(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)
	errInput := errors.New("input closed")
	failing := ChooserFunc(func(ctx context.Context, turn Turn) (engine.Direction, error) {
		return 0, errInput
	})

	m, err := New(eng, []Chooser{failing, failing})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if _, err := m.Run(context.Background()); !errors.Is(err, errInput) {
		t.Errorf("Expected chooser error, got %v", err)
	}
}

func TestRun_OnlyOnce(t *testing.T) {
	eng := createTestEngine(t, bobStuckLayout, 2)

	m, err := New(eng, []Chooser{scripted(engine.Down), scripted()})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := m.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}
}

func TestObserversReadPublishedState(t *testing.T) {
	eng := createTestEngine(t, openLayout, 2)
	bot := NewRandomChooser(engine.NewSeededRand(5))

	m, err := New(eng, []Chooser{bot, bot}, WithMaxRounds(2))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	m.AddObserver(ObserverFunc(func(ev Event) {
		if ev.MatchID != m.ID() {
			t.Errorf("Unexpected match id %s", ev.MatchID)
		}
		if ev.State == nil {
			t.Errorf("Expected state on %s event", ev.Type)
			return
		}
		if got := m.State(); !reflect.DeepEqual(got.Cells, ev.State.Cells) {
			t.Errorf("%s event: published state differs from event state", ev.Type)
		}
	}))

	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRandomChooser(t *testing.T) {
	c := NewRandomChooser(engine.NewSeededRand(1))
	moves := []engine.Direction{engine.Down, engine.Left}

	for i := 0; i < 20; i++ {
		d, err := c.Choose(context.Background(), Turn{Moves: moves})
		if err != nil {
			t.Fatalf("Choose failed: %v", err)
		}
		if !engine.ContainsDirection(moves, d) {
			t.Errorf("Chose %s, not one of %v", d, moves)
		}
	}

	if _, err := c.Choose(context.Background(), Turn{}); !errors.Is(err, ErrNoMoves) {
		t.Errorf("Expected ErrNoMoves, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Choose(ctx, Turn{Moves: moves}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
