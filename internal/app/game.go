package app

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// Outbound event names on the websocket wire.
const (
	EventGameState       = "updateGameState"
	EventUniqueID        = "uniqueId"
	EventUniqueIDUnknown = "uniqueIdUnknown"
	EventRemoved         = "removedFromGame"
	EventBuzzerSound     = "playBuzzerSound"
	EventCorrectSound    = "playCorrectAnswerSound"
	EventWrongSound      = "playWrongAnswerSound"
	EventFireworks       = "launch-fireworks"
)

// Broadcaster is what the game loop needs from the transport layer.
type Broadcaster interface {
	BroadcastState(state domain.GameState)
	BroadcastEvent(event string, payload any)
	SendEvent(connID, event string, payload any)
	Disconnect(connID string)
}

// SnapshotWriter persists full-state snapshots, best effort. A write failure
// never rolls back the in-memory mutation that triggered it.
type SnapshotWriter interface {
	Save(ctx context.Context, state domain.GameState) error
}

// Config tunes the turn rotation animation. Rand may be injected for
// deterministic tests; when nil a time-seeded source is used.
type Config struct {
	RotationTick     time.Duration
	RotationMinTicks int
	RotationMaxTicks int
	Rand             *rand.Rand
}

func (c Config) withDefaults() Config {
	if c.RotationTick <= 0 {
		c.RotationTick = 250 * time.Millisecond
	}
	if c.RotationMinTicks <= 0 {
		c.RotationMinTicks = 8
	}
	if c.RotationMaxTicks < c.RotationMinTicks {
		c.RotationMaxTicks = 15
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Game serializes every state-changing action of the match. A single goroutine
// (Run) owns the aggregate and drains the inbox in arrival order; rotation
// ticks go through the same inbox, so no mutation ever happens concurrently.
type Game struct {
	cfg       Config
	state     *State
	out       Broadcaster
	snapshots SnapshotWriter
	rnd       *rand.Rand
	inbox     chan Envelope

	runCtx      context.Context
	rotation    *turnRotation
	rotationGen uint64
}

// New creates the match coordinator for a loaded board. snapshots may be nil
// to disable persistence.
func New(cfg Config, categories []domain.Category, out Broadcaster, snapshots SnapshotWriter) *Game {
	cfg = cfg.withDefaults()
	return &Game{
		cfg:       cfg,
		state:     NewState(categories),
		out:       out,
		snapshots: snapshots,
		rnd:       cfg.Rand,
		inbox:     make(chan Envelope, 256),
		runCtx:    context.Background(),
	}
}

// State exposes the aggregate for startup wiring and tests. Outside of Run's
// goroutine it must only be touched before Run starts.
func (g *Game) State() *State {
	return g.state
}

// Enqueue submits an action on behalf of a connection. Safe to call from any
// goroutine; blocks only when the inbox is full.
func (g *Game) Enqueue(connID string, action Action) {
	g.inbox <- Envelope{ConnID: connID, Action: action}
}

// Run processes actions until ctx is cancelled.
func (g *Game) Run(ctx context.Context) {
	g.runCtx = ctx
	for {
		select {
		case <-ctx.Done():
			g.stopRotation()
			return
		case env := <-g.inbox:
			g.handle(env)
		}
	}
}

// handle validates and applies one action. Illegal transitions and unknown
// references are dropped without a broadcast; the sender gets no error signal.
func (g *Game) handle(env Envelope) {
	switch a := env.Action.(type) {
	case JoinAction:
		g.handleJoin(env.ConnID, a)
	case RejoinAction:
		g.handleRejoin(env.ConnID, a)
	case RequestGameStateAction:
		g.out.SendEvent(env.ConnID, EventGameState, g.state.Snapshot())
	case RemovePlayerAction:
		g.handleRemovePlayer(a)
	case UpdatePointsAction:
		p, err := g.state.ApplyScoreDelta(a.PlayerID, a.Delta)
		if err != nil {
			return
		}
		log.Printf("updated points of %s: %+d (-> %d)", p.Name, a.Delta, p.Score)
		g.broadcastState()
	case OpenQuestionAction:
		if err := g.state.OpenQuestion(a.CategoryName, a.Question.Prompt); err != nil {
			return
		}
		log.Printf("question opened: %s", snippet(a.Question.Prompt, 40))
		g.broadcastState()
	case AbortQuestionAction:
		active := g.state.ActiveQuestion()
		if err := g.state.AbortQuestion(); err != nil {
			return
		}
		log.Printf("question aborted: %s", snippet(active.Prompt, 40))
		g.broadcastState()
	case CompleteQuestionAction:
		g.handleCompleteQuestion()
	case SelectRandomTurnAction:
		g.startRotation()
	case BuzzAction:
		g.handleBuzz(env.ConnID)
	case ResetBuzzerAction:
		if !g.state.ClearBuzzed() {
			return
		}
		log.Printf("buzzer reset")
		g.broadcastState()
	case CorrectAnswerAction:
		g.handleCorrectAnswer()
	case WrongAnswerAction:
		g.handleWrongAnswer()
	case ExposeQuestionAction:
		if err := g.state.SetExposeQuestion(); err != nil {
			return
		}
		g.broadcastState()
	case ExposeAnswerAction:
		if err := g.state.SetExposeAnswer(); err != nil {
			return
		}
		g.broadcastState()
	case ShowBoardAction:
		g.state.SetShowBoard()
		g.broadcastState()
	case RevealEnumItemAction:
		if err := g.state.RevealEnumItem(); err != nil {
			return
		}
		log.Printf("revealed enum item %d", g.state.EnumRevealAmount())
		g.broadcastState()
	case UpdateTextInputAction:
		if err := g.state.SetTextInput(env.ConnID, a.Text); err != nil {
			return
		}
		g.broadcastState()
	case LockTextInputAction:
		changed, err := g.state.LockTextInput()
		if err != nil || !changed {
			return
		}
		log.Printf("locked text inputs")
		g.broadcastState()
	case RevealTextInputAction:
		changed, err := g.state.RevealTextInput()
		if err != nil || !changed {
			return
		}
		log.Printf("revealed text inputs")
		g.broadcastState()
	case UpdateChoiceAction:
		if err := g.state.SetChoice(env.ConnID, a.Choice); err != nil {
			return
		}
		g.broadcastState()
	case LockChoiceAction:
		changed, err := g.state.LockChoice()
		if err != nil || !changed {
			return
		}
		log.Printf("locked choice inputs")
		g.broadcastState()
	case RevealChoiceAction:
		changed, err := g.state.RevealChoice()
		if err != nil || !changed {
			return
		}
		log.Printf("revealed choice inputs")
		g.broadcastState()
	case SetPlayerTeamAction:
		if err := g.state.SetTeam(a.PlayerID, a.TeamID); err != nil {
			return
		}
		log.Printf("assigned player %s to team %d", a.PlayerID, a.TeamID)
		g.broadcastState()
	case LaunchFireworksAction:
		leader := g.state.HighestScorer()
		if leader == nil {
			return
		}
		log.Printf("launched fireworks for %s", leader.Name)
		g.out.BroadcastEvent(EventFireworks, *leader)
	case ReplaceBoardAction:
		g.state.ReplaceCategories(a.Categories)
		log.Printf("board replaced: %d categories", len(a.Categories))
		g.broadcastState()
	case rotationTickAction:
		g.handleRotationTick(a)
	}
}

func (g *Game) handleJoin(connID string, a JoinAction) {
	p, err := g.state.Join(connID, a.Name)
	if err != nil {
		log.Printf("join failed: %v", err)
		return
	}
	log.Printf("player joined: %s (conn %s)", p.Name, connID)
	g.broadcastState()
	g.out.SendEvent(connID, EventUniqueID, p.ID)
}

func (g *Game) handleRejoin(connID string, a RejoinAction) {
	p, err := g.state.Rejoin(connID, a.Identity)
	if errors.Is(err, domain.ErrUnknownIdentity) {
		log.Printf("rejoin with unknown identity from conn %s", connID)
		g.out.SendEvent(connID, EventUniqueIDUnknown, nil)
		return
	}
	if err != nil {
		return
	}
	log.Printf("player rejoined: %s (conn %s)", p.Name, connID)
	g.broadcastState()
}

func (g *Game) handleRemovePlayer(a RemovePlayerAction) {
	p, err := g.state.RemoveParticipant(a.PlayerID)
	if err != nil {
		return
	}
	log.Printf("removed player: %s (%s)", p.Name, p.ID)
	g.broadcastState()
	g.out.SendEvent(p.ConnectionID, EventRemoved, nil)
	g.out.Disconnect(p.ConnectionID)
}

func (g *Game) handleCompleteQuestion() {
	active := g.state.ActiveQuestion()
	if err := g.state.CompleteQuestion(); err != nil {
		return
	}
	log.Printf("question completed: %s", snippet(active.Prompt, 40))
	snap := g.broadcastState()
	g.persistSnapshot(snap)
}

func (g *Game) handleBuzz(connID string) {
	p, ok := g.state.participantByConnection(connID)
	if !ok {
		return
	}
	if err := g.state.SetBuzzed(p); err != nil {
		return
	}
	log.Printf("player buzzed: %s", p.Name)
	g.broadcastState()
	g.out.BroadcastEvent(EventBuzzerSound, nil)
}

func (g *Game) handleCorrectAnswer() {
	if g.state.ActiveQuestion() == nil {
		return
	}
	if buzzed := g.state.BuzzedPlayer(); buzzed != nil {
		if err := g.state.ApplyCorrect(); err != nil {
			return
		}
		log.Printf("correct answer by %s (-> %d)", buzzed.Name, buzzed.Score)
	}
	_ = g.state.SetExposeAnswer()
	g.state.ClearBuzzed()
	g.broadcastState()
	g.out.BroadcastEvent(EventCorrectSound, nil)
}

func (g *Game) handleWrongAnswer() {
	buzzed := g.state.BuzzedPlayer()
	if err := g.state.ApplyWrong(); err != nil {
		return
	}
	log.Printf("wrong answer by %s (-> %d)", buzzed.Name, buzzed.Score)
	// The answer stays hidden so the remaining players can buzz.
	g.state.ClearBuzzed()
	g.broadcastState()
	g.out.BroadcastEvent(EventWrongSound, nil)
}

func (g *Game) broadcastState() domain.GameState {
	snap := g.state.Snapshot()
	g.out.BroadcastState(snap)
	return snap
}

func (g *Game) persistSnapshot(snap domain.GameState) {
	if g.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.snapshots.Save(ctx, snap); err != nil {
		log.Printf("saving game state failed: %v", err)
	}
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
