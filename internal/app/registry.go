package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// The identity registry maps a transient connection id to a durable participant
// identity so a tab refresh or brief disconnect does not lose a player. The
// identity is a large random token communicated only to the owning connection;
// knowledge of the token is the whole proof of ownership. That is an accepted
// trust assumption for a cooperative quiz night, not a security boundary.

// Join creates a fresh participant bound to connID and returns it. The caller
// must unicast the generated identity to the joining connection only.
func (s *State) Join(connID, name string) (*domain.Participant, error) {
	id, err := newIdentity()
	if err != nil {
		return nil, err
	}
	p := &domain.Participant{
		ID:           id,
		ConnectionID: connID,
		Name:         name,
		Choice:       domain.NoChoice,
	}
	s.players = append(s.players, p)
	return p, nil
}

// Rejoin rebinds an existing identity to a new connection. The rebind is
// unconditional: if a stale connection still holds the identity, the newest
// connection wins. Returns ErrUnknownIdentity without mutating anything when
// the identity is not part of the match.
func (s *State) Rejoin(connID, identity string) (*domain.Participant, error) {
	p, ok := s.participantByID(identity)
	if !ok {
		return nil, domain.ErrUnknownIdentity
	}
	p.ConnectionID = connID
	return p, nil
}

// RemoveParticipant evicts a participant from the match. References held by
// the buzzer and the turn are cleared or advanced so they never dangle.
func (s *State) RemoveParticipant(playerID string) (*domain.Participant, error) {
	for i, p := range s.players {
		if p.ID != playerID {
			continue
		}
		if s.turn != nil && s.turn.ID == playerID {
			if !s.AdvanceTurn() || len(s.players) == 1 {
				s.turn = nil
			}
		}
		if s.buzzed != nil && s.buzzed.ID == playerID {
			s.buzzed = nil
		}
		s.players = append(s.players[:i], s.players[i+1:]...)
		return p, nil
	}
	return nil, domain.ErrParticipantNotFound
}

// newIdentity produces a 16-byte cryptographically random hex token. Collision
// probability is negligible at this size.
func newIdentity() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate identity: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
