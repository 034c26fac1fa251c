package app

import (
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// IsDoublePoints reports whether the board carries the double-points marker: a
// question whose point value equals domain.DoublePointsValue. It is a pure
// function of the full category set and is recomputed on every scoring
// decision, never cached, because the board can be reloaded mid-match.
func IsDoublePoints(categories []domain.Category) bool {
	for _, c := range categories {
		for _, q := range c.Questions {
			if q.Value == domain.DoublePointsValue {
				return true
			}
		}
	}
	return false
}

// ApplyCorrect awards the active question's value to the buzzed player, doubled
// when the double-points marker is on the board, then fans the new score out to
// the player's team.
func (s *State) ApplyCorrect() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	if s.buzzed == nil {
		return ErrIllegalTransition
	}
	delta := s.active.Value
	if IsDoublePoints(s.categories) {
		delta *= 2
	}
	s.buzzed.Score += delta
	s.syncTeamScore(s.buzzed.TeamID, s.buzzed.Score)
	return nil
}

// ApplyWrong deducts half the question's value, truncated toward zero. Under
// double points the penalty is the full value, not double the half; the
// asymmetry is intended game design.
func (s *State) ApplyWrong() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	if s.buzzed == nil {
		return ErrIllegalTransition
	}
	penalty := s.active.Value / 2
	if IsDoublePoints(s.categories) {
		penalty = s.active.Value
	}
	s.buzzed.Score -= penalty
	s.syncTeamScore(s.buzzed.TeamID, s.buzzed.Score)
	return nil
}

// ApplyScoreDelta adds an arbitrary point delta to a participant (moderator
// correction) and syncs the team.
func (s *State) ApplyScoreDelta(playerID string, delta int) (*domain.Participant, error) {
	p, ok := s.participantByID(playerID)
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	p.Score += delta
	s.syncTeamScore(p.TeamID, p.Score)
	return p, nil
}

// HighestScorer returns the participant with the top score, ties broken by
// join order. Nil when the match has no participants.
func (s *State) HighestScorer() *domain.Participant {
	var best *domain.Participant
	for _, p := range s.players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// syncTeamScore keeps every member of a team at the same displayed score.
func (s *State) syncTeamScore(teamID *int, score int) {
	if teamID == nil {
		return
	}
	for _, p := range s.players {
		if p.TeamID != nil && *p.TeamID == *teamID {
			p.Score = score
		}
	}
}
