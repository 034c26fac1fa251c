package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// chanBroadcaster forwards state broadcasts to a channel so the test can
// observe the animation from outside the game loop goroutine.
type chanBroadcaster struct {
	states chan domain.GameState
}

func (b *chanBroadcaster) BroadcastState(s domain.GameState) { b.states <- s }
func (b *chanBroadcaster) BroadcastEvent(string, any)        {}
func (b *chanBroadcaster) SendEvent(string, string, any)     {}
func (b *chanBroadcaster) Disconnect(string)                 {}

func (b *chanBroadcaster) next(t *testing.T) domain.GameState {
	t.Helper()
	select {
	case s := <-b.states:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a state broadcast")
		return domain.GameState{}
	}
}

func (b *chanBroadcaster) expectQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case s := <-b.states:
		t.Fatalf("expected no further broadcasts, got turn %+v", s.PlayersTurn)
	case <-time.After(d):
	}
}

// expectedDraws mirrors the scheduler's use of the injected random source.
func expectedDraws(seed int64, playerCount int, cfg Config) (targetIdx, ticks int) {
	rnd := rand.New(rand.NewSource(seed))
	targetIdx = rnd.Intn(playerCount)
	ticks = cfg.RotationMinTicks + rnd.Intn(cfg.RotationMaxTicks-cfg.RotationMinTicks+1)
	return targetIdx, ticks
}

func TestRotationLandsOnPreChosenPlayer(t *testing.T) {
	const seed = 7
	cfg := Config{
		RotationTick:     2 * time.Millisecond,
		RotationMinTicks: 8,
		RotationMaxTicks: 15,
		Rand:             rand.New(rand.NewSource(seed)),
	}
	b := &chanBroadcaster{states: make(chan domain.GameState, 64)}
	g := New(cfg, sampleBoard(), b, nil)
	for _, name := range []string{"Alice", "Bob", "Cara"} {
		if _, err := g.State().Join("conn-"+name, name); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	targetIdx, ticks := expectedDraws(seed, 3, cfg)
	target := g.State().Participants()[targetIdx].ID

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	g.Enqueue("mod", SelectRandomTurnAction{})

	// One broadcast for the starting turn, one per animation tick.
	var last domain.GameState
	for i := 0; i < 1+ticks; i++ {
		last = b.next(t)
		if last.PlayersTurn == nil {
			t.Fatalf("broadcast %d carried no turn", i)
		}
	}
	if last.PlayersTurn.ID != target {
		t.Fatalf("animation settled on %s, expected the pre-chosen participant", last.PlayersTurn.Name)
	}
	b.expectQuiet(t, 50*time.Millisecond)
}

func TestNewSelectionSupersedesRunningAnimation(t *testing.T) {
	const seed = 99
	cfg := Config{
		RotationTick:     2 * time.Millisecond,
		RotationMinTicks: 8,
		RotationMaxTicks: 15,
		Rand:             rand.New(rand.NewSource(seed)),
	}
	b := &chanBroadcaster{states: make(chan domain.GameState, 64)}
	g := New(cfg, sampleBoard(), b, nil)
	for _, name := range []string{"Alice", "Bob", "Cara", "Dave"} {
		if _, err := g.State().Join("conn-"+name, name); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	// The second selection draws after the first; its ticks are the only
	// ones that produce broadcasts, the superseded generation is inert.
	rnd := rand.New(rand.NewSource(seed))
	rnd.Intn(4)
	rnd.Intn(cfg.RotationMaxTicks - cfg.RotationMinTicks + 1)
	target2Idx := rnd.Intn(4)
	ticks2 := cfg.RotationMinTicks + rnd.Intn(cfg.RotationMaxTicks-cfg.RotationMinTicks+1)
	target2 := g.State().Participants()[target2Idx].ID

	// Enqueue both selections before the loop starts so the second cancels
	// the first before its timer ever fires.
	g.Enqueue("mod", SelectRandomTurnAction{})
	g.Enqueue("mod", SelectRandomTurnAction{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	var last domain.GameState
	for i := 0; i < 2+ticks2; i++ {
		last = b.next(t)
	}
	if last.PlayersTurn == nil || last.PlayersTurn.ID != target2 {
		t.Fatalf("expected the second selection's target to win, got %+v", last.PlayersTurn)
	}
	b.expectQuiet(t, 50*time.Millisecond)
}

func TestRotationWithNoPlayersIsDropped(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("mod", SelectRandomTurnAction{})
	if len(rec.states) != 0 {
		t.Fatal("selection with no players must not broadcast")
	}
	if g.rotation != nil {
		t.Fatal("no animation may be scheduled without players")
	}
}
