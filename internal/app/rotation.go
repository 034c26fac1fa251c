package app

import (
	"context"
	"log"
	"time"
)

// turnRotation is the single owned handle of an in-flight turn selection
// animation. Starting a new selection supersedes the previous one; the
// generation counter makes ticks of a cancelled animation inert even if they
// were already queued.
type turnRotation struct {
	gen       uint64
	remaining int
	target    string
	cancel    context.CancelFunc
}

// startRotation picks the landing participant uniformly at random up front,
// then animates a random number of turn advances (broadcasting after each
// tick) before settling on the chosen one. The animation is cosmetic; the
// random choice is made before the first tick.
func (g *Game) startRotation() {
	players := g.state.Participants()
	if len(players) == 0 {
		return
	}
	g.stopRotation()
	g.rotationGen++
	gen := g.rotationGen

	targetIdx := g.rnd.Intn(len(players))
	ticks := g.cfg.RotationMinTicks
	if spread := g.cfg.RotationMaxTicks - g.cfg.RotationMinTicks; spread > 0 {
		ticks += g.rnd.Intn(spread + 1)
	}

	// Start offset so that exactly `ticks` advances land on the target.
	start := ((targetIdx-ticks)%len(players) + len(players)) % len(players)
	g.state.SetTurn(players[start])
	log.Printf("selecting random player's turn (%d ticks)", ticks)
	g.broadcastState()

	ctx, cancel := context.WithCancel(g.runCtx)
	g.rotation = &turnRotation{
		gen:       gen,
		remaining: ticks,
		target:    players[targetIdx].ID,
		cancel:    cancel,
	}
	go g.runRotationTimer(ctx, gen, ticks)
}

// runRotationTimer posts ticks into the game inbox at the configured interval
// so every turn advance is serialized with the other actions.
func (g *Game) runRotationTimer(ctx context.Context, gen uint64, ticks int) {
	ticker := time.NewTicker(g.cfg.RotationTick)
	defer ticker.Stop()
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		select {
		case <-ctx.Done():
			return
		case g.inbox <- Envelope{Action: rotationTickAction{gen: gen}}:
		}
	}
}

func (g *Game) handleRotationTick(a rotationTickAction) {
	r := g.rotation
	if r == nil || a.gen != r.gen {
		return
	}
	g.state.AdvanceTurn()
	r.remaining--
	if r.remaining == 0 {
		// Players may have joined or left mid-animation; pin the landing
		// turn to the participant chosen up front if they are still here.
		if target, ok := g.state.participantByID(r.target); ok {
			g.state.SetTurn(target)
		}
		g.stopRotation()
		if turn := g.state.PlayersTurn(); turn != nil {
			log.Printf("random player's turn selected: %s", turn.Name)
		}
	}
	g.broadcastState()
}

func (g *Game) stopRotation() {
	if g.rotation != nil {
		g.rotation.cancel()
		g.rotation = nil
	}
}
