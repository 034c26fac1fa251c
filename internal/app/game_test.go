package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// recorder captures everything the game loop hands to the transport layer.
type recorder struct {
	states      []domain.GameState
	events      []string
	sends       []sentEvent
	disconnects []string
}

type sentEvent struct {
	connID  string
	event   string
	payload any
}

func (r *recorder) BroadcastState(s domain.GameState) { r.states = append(r.states, s) }
func (r *recorder) BroadcastEvent(event string, _ any) {
	r.events = append(r.events, event)
}
func (r *recorder) SendEvent(connID, event string, payload any) {
	r.sends = append(r.sends, sentEvent{connID: connID, event: event, payload: payload})
}
func (r *recorder) Disconnect(connID string) { r.disconnects = append(r.disconnects, connID) }

func (r *recorder) lastState(t *testing.T) domain.GameState {
	t.Helper()
	if len(r.states) == 0 {
		t.Fatal("expected at least one state broadcast")
	}
	return r.states[len(r.states)-1]
}

func newTestGame(board []domain.Category) (*Game, *recorder) {
	rec := &recorder{}
	g := New(Config{}, board, rec, nil)
	return g, rec
}

func (g *Game) apply(connID string, a Action) {
	g.handle(Envelope{ConnID: connID, Action: a})
}

func TestJoinBroadcastsStateAndUnicastsIdentity(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})

	if len(rec.states) != 1 {
		t.Fatalf("expected 1 state broadcast, got %d", len(rec.states))
	}
	if len(rec.sends) != 1 || rec.sends[0].event != EventUniqueID || rec.sends[0].connID != "c1" {
		t.Fatalf("expected uniqueId unicast to c1, got %+v", rec.sends)
	}
	id, ok := rec.sends[0].payload.(string)
	if !ok || id != g.State().Participants()[0].ID {
		t.Fatalf("expected the participant's identity as payload, got %v", rec.sends[0].payload)
	}
}

func TestRejoinUnknownIdentityUnicastsOnly(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", RejoinAction{Identity: "deadbeef"})

	if len(rec.states) != 0 {
		t.Fatalf("unknown rejoin must not broadcast, got %d states", len(rec.states))
	}
	if len(rec.sends) != 1 || rec.sends[0].event != EventUniqueIDUnknown {
		t.Fatalf("expected uniqueIdUnknown unicast, got %+v", rec.sends)
	}
}

// Three players join, the moderator opens a 200-point question, Alice buzzes,
// Bob's buzz is swallowed, the answer is scored correct.
func TestPlainQuestionFlow(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})
	g.apply("c2", JoinAction{Name: "Bob"})
	g.apply("c3", JoinAction{Name: "Cara"})

	g.apply("mod", OpenQuestionAction{CategoryName: "History", Question: domain.Question{Prompt: "Second question"}})
	if active := rec.lastState(t).ActiveQuestion; active == nil || active.Value != 200 {
		t.Fatalf("expected 200-point active question, got %+v", active)
	}

	g.apply("c1", BuzzAction{})
	statesAfterBuzz := len(rec.states)
	if got := rec.lastState(t).BuzzedPlayer; got == nil || got.Name != "Alice" {
		t.Fatalf("expected Alice buzzed, got %+v", got)
	}
	if len(rec.events) != 1 || rec.events[0] != EventBuzzerSound {
		t.Fatalf("expected buzzer sound, got %v", rec.events)
	}

	g.apply("c2", BuzzAction{})
	if len(rec.states) != statesAfterBuzz {
		t.Fatal("second buzz must be dropped without a broadcast")
	}
	if got := rec.lastState(t).BuzzedPlayer; got.Name != "Alice" {
		t.Fatalf("expected Alice to keep the buzzer, got %s", got.Name)
	}

	g.apply("mod", CorrectAnswerAction{})
	final := rec.lastState(t)
	if final.Players[0].Score != 200 {
		t.Errorf("expected Alice at 200, got %d", final.Players[0].Score)
	}
	if final.BuzzedPlayer != nil {
		t.Error("expected buzzer cleared after scoring")
	}
	if !final.ExposeAnswer {
		t.Error("expected answer exposed")
	}
	if rec.events[len(rec.events)-1] != EventCorrectSound {
		t.Errorf("expected correct-answer sound, got %v", rec.events)
	}
}

func TestWrongAnswerKeepsQuestionOpen(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})
	g.apply("c2", JoinAction{Name: "Bob"})

	g.apply("mod", OpenQuestionAction{CategoryName: "History", Question: domain.Question{Prompt: "First question"}})
	g.apply("c1", BuzzAction{})
	g.apply("mod", WrongAnswerAction{})

	state := rec.lastState(t)
	if state.Players[0].Score != -50 {
		t.Errorf("expected Alice at -50, got %d", state.Players[0].Score)
	}
	if state.ExposeAnswer {
		t.Error("wrong answer must not expose the answer")
	}
	if state.BuzzedPlayer != nil {
		t.Error("expected buzzer released")
	}
	if rec.events[len(rec.events)-1] != EventWrongSound {
		t.Errorf("expected wrong-answer sound, got %v", rec.events)
	}

	// The question is still open, so Bob can take his shot now.
	g.apply("c2", BuzzAction{})
	if got := rec.lastState(t).BuzzedPlayer; got == nil || got.Name != "Bob" {
		t.Fatalf("expected Bob to buzz after the release, got %+v", got)
	}
}

func TestIllegalActionsAreSilentlyDropped(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})
	baseline := len(rec.states)

	g.apply("c1", BuzzAction{})                     // no active question
	g.apply("mod", ResetBuzzerAction{})             // nothing buzzed
	g.apply("mod", CompleteQuestionAction{})        // nothing active
	g.apply("mod", RevealTextInputAction{})         // not locked
	g.apply("mod", RevealChoiceAction{})            // not locked
	g.apply("mod", RevealEnumItemAction{})          // no active question
	g.apply("mod", RemovePlayerAction{PlayerID: "missing"})
	g.apply("mod", UpdatePointsAction{PlayerID: "missing", Delta: 10})
	g.apply("stranger", UpdateTextInputAction{Text: "hi"}) // unknown connection

	if len(rec.states) != baseline {
		t.Fatalf("illegal actions must not broadcast, got %d extra", len(rec.states)-baseline)
	}
	if len(rec.sends) != 1 {
		t.Fatalf("illegal actions must not signal the requester, got %+v", rec.sends)
	}
}

func TestRequestGameStateIsUnicast(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})
	broadcasts := len(rec.states)

	g.apply("c1", RequestGameStateAction{})
	if len(rec.states) != broadcasts {
		t.Fatal("requestGameState must not broadcast")
	}
	last := rec.sends[len(rec.sends)-1]
	if last.event != EventGameState || last.connID != "c1" {
		t.Fatalf("expected unicast snapshot, got %+v", last)
	}
	if snap, ok := last.payload.(domain.GameState); !ok || len(snap.Players) != 1 {
		t.Fatalf("expected snapshot payload, got %v", last.payload)
	}
}

func TestRemovePlayerEvictsAndDisconnects(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("c1", JoinAction{Name: "Alice"})
	g.apply("c2", JoinAction{Name: "Bob"})
	aliceID := g.State().Participants()[0].ID

	g.apply("mod", RemovePlayerAction{PlayerID: aliceID})

	if got := rec.lastState(t).Players; len(got) != 1 || got[0].Name != "Bob" {
		t.Fatalf("expected only Bob left, got %+v", got)
	}
	last := rec.sends[len(rec.sends)-1]
	if last.event != EventRemoved || last.connID != "c1" {
		t.Fatalf("expected removedFromGame unicast to c1, got %+v", last)
	}
	if len(rec.disconnects) != 1 || rec.disconnects[0] != "c1" {
		t.Fatalf("expected c1 disconnected, got %v", rec.disconnects)
	}
}

func TestLaunchFireworksBroadcastsLeader(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("mod", LaunchFireworksAction{})
	if len(rec.events) != 0 {
		t.Fatal("fireworks with no players must be dropped")
	}

	g.apply("c1", JoinAction{Name: "Alice"})
	g.apply("c2", JoinAction{Name: "Bob"})
	statesBefore := len(rec.states)

	g.apply("mod", LaunchFireworksAction{})
	if len(rec.states) != statesBefore {
		t.Fatal("fireworks must not mutate or broadcast state")
	}
	if len(rec.events) != 1 || rec.events[0] != EventFireworks {
		t.Fatalf("expected fireworks event, got %v", rec.events)
	}
}

type fakeSnapshotWriter struct {
	saves []domain.GameState
	err   error
}

func (w *fakeSnapshotWriter) Save(_ context.Context, state domain.GameState) error {
	w.saves = append(w.saves, state)
	return w.err
}

func TestCompleteQuestionPersistsSnapshot(t *testing.T) {
	rec := &recorder{}
	writer := &fakeSnapshotWriter{}
	g := New(Config{}, sampleBoard(), rec, writer)

	g.apply("c1", JoinAction{Name: "Alice"})
	g.apply("mod", OpenQuestionAction{CategoryName: "History", Question: domain.Question{Prompt: "First question"}})
	g.apply("mod", CompleteQuestionAction{})

	if len(writer.saves) != 1 {
		t.Fatalf("expected 1 snapshot save, got %d", len(writer.saves))
	}
	if !writer.saves[0].Categories[0].Questions[0].Answered {
		t.Error("persisted snapshot must carry the answered flag")
	}
}

func TestSnapshotWriteFailureDoesNotRollBack(t *testing.T) {
	rec := &recorder{}
	writer := &fakeSnapshotWriter{err: errors.New("disk full")}
	g := New(Config{}, sampleBoard(), rec, writer)

	g.apply("mod", OpenQuestionAction{CategoryName: "History", Question: domain.Question{Prompt: "First question"}})
	g.apply("mod", CompleteQuestionAction{})

	if !g.State().Categories()[0].Questions[0].Answered {
		t.Error("in-memory state must keep the mutation despite the write failure")
	}
}

func TestReplaceBoardBroadcasts(t *testing.T) {
	g, rec := newTestGame(sampleBoard())
	g.apply("", ReplaceBoardAction{Categories: doubleBoard()})

	state := rec.lastState(t)
	if len(state.Categories[1].Questions) != 3 {
		t.Fatalf("expected replaced board in broadcast, got %+v", state.Categories)
	}
	if !IsDoublePoints(g.State().Categories()) {
		t.Error("scoring must see the reloaded board immediately")
	}
}
