package app

import (
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// State is the single mutable aggregate for the match. All mutations go through
// the intention-revealing methods below so every invariant is enforced at one
// choke point; handlers never write fields directly. State is owned by the game
// loop goroutine and is not safe for concurrent use.
type State struct {
	players    []*domain.Participant
	categories []domain.Category

	active *domain.ActiveQuestion
	buzzed *domain.Participant
	turn   *domain.Participant

	exposeQuestion   bool
	exposeAnswer     bool
	showBoard        bool
	enumRevealAmount int
	lockTextInput    bool
	revealTextInput  bool
	lockChoice       bool
	revealChoice     bool
}

// NewState creates the aggregate for a freshly loaded board.
func NewState(categories []domain.Category) *State {
	return &State{categories: categories}
}

// Snapshot produces a deep copy safe to hand to the transport and persistence
// layers while the game loop keeps mutating the aggregate.
func (s *State) Snapshot() domain.GameState {
	players := make([]domain.Participant, len(s.players))
	for i, p := range s.players {
		players[i] = *p
	}
	categories := make([]domain.Category, len(s.categories))
	for i, c := range s.categories {
		questions := make([]domain.Question, len(c.Questions))
		copy(questions, c.Questions)
		categories[i] = domain.Category{Name: c.Name, Questions: questions}
	}

	snap := domain.GameState{
		Players:          players,
		Categories:       categories,
		ExposeQuestion:   s.exposeQuestion,
		ExposeAnswer:     s.exposeAnswer,
		ShowBoard:        s.showBoard,
		EnumRevealAmount: s.enumRevealAmount,
		LockTextInput:    s.lockTextInput,
		RevealTextInput:  s.revealTextInput,
		LockChoice:       s.lockChoice,
		RevealChoice:     s.revealChoice,
	}
	if s.active != nil {
		active := *s.active
		snap.ActiveQuestion = &active
	}
	if s.buzzed != nil {
		buzzed := *s.buzzed
		snap.BuzzedPlayer = &buzzed
	}
	if s.turn != nil {
		turn := *s.turn
		snap.PlayersTurn = &turn
	}
	return snap
}

// Participants returns the participants in join order.
func (s *State) Participants() []*domain.Participant {
	return s.players
}

// Categories returns the current board.
func (s *State) Categories() []domain.Category {
	return s.categories
}

// ActiveQuestion returns the currently open question, or nil.
func (s *State) ActiveQuestion() *domain.ActiveQuestion {
	return s.active
}

// BuzzedPlayer returns the participant holding the buzzer lock, or nil.
func (s *State) BuzzedPlayer() *domain.Participant {
	return s.buzzed
}

// PlayersTurn returns the participant whose turn it is, or nil.
func (s *State) PlayersTurn() *domain.Participant {
	return s.turn
}

func (s *State) participantByID(id string) (*domain.Participant, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (s *State) participantByConnection(connID string) (*domain.Participant, bool) {
	for _, p := range s.players {
		if p.ConnectionID == connID {
			return p, true
		}
	}
	return nil, false
}

// OpenQuestion transitions Idle -> Open. The requested question must match a
// known category and prompt, and no other question may be active. Opening
// resets every per-question flag and all participant inputs.
func (s *State) OpenQuestion(categoryName, prompt string) error {
	if s.active != nil {
		return ErrIllegalTransition
	}
	for _, c := range s.categories {
		if c.Name != categoryName {
			continue
		}
		for i, q := range c.Questions {
			if q.Prompt == prompt {
				s.active = &domain.ActiveQuestion{Question: q, CategoryName: c.Name, Index: i}
				s.resetQuestionState()
				return nil
			}
		}
		return domain.ErrQuestionNotFound
	}
	return domain.ErrCategoryNotFound
}

// AbortQuestion closes the active question without marking it answered.
func (s *State) AbortQuestion() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	s.active = nil
	s.buzzed = nil
	s.resetQuestionState()
	return nil
}

// CompleteQuestion closes the active question, marks the matching board
// question answered, and advances the turn.
func (s *State) CompleteQuestion() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	for ci := range s.categories {
		if s.categories[ci].Name != s.active.CategoryName {
			continue
		}
		for qi := range s.categories[ci].Questions {
			if s.categories[ci].Questions[qi].Prompt == s.active.Prompt {
				s.categories[ci].Questions[qi].Answered = true
			}
		}
	}
	s.active = nil
	s.buzzed = nil
	s.resetQuestionState()
	s.AdvanceTurn()
	return nil
}

// SetBuzzed hands the buzzer lock to p. First buzz wins; anything after that
// is rejected until the buzzer is reset or the question closes.
func (s *State) SetBuzzed(p *domain.Participant) error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	if s.buzzed != nil {
		return ErrIllegalTransition
	}
	s.buzzed = p
	return nil
}

// ClearBuzzed releases the buzzer lock. Reports whether anything changed.
func (s *State) ClearBuzzed() bool {
	if s.buzzed == nil {
		return false
	}
	s.buzzed = nil
	return true
}

// SetTurn assigns the turn directly (used by the rotation scheduler).
func (s *State) SetTurn(p *domain.Participant) {
	s.turn = p
}

// AdvanceTurn moves the turn to the next participant in join order, wrapping
// around. No-op when no turn is set or the player list is empty.
func (s *State) AdvanceTurn() bool {
	if s.turn == nil || len(s.players) == 0 {
		return false
	}
	idx := 0
	for i, p := range s.players {
		if p.ID == s.turn.ID {
			idx = i
			break
		}
	}
	s.turn = s.players[(idx+1)%len(s.players)]
	return true
}

// SetExposeQuestion reveals the prompt to players. Requires an open question.
func (s *State) SetExposeQuestion() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	s.exposeQuestion = true
	return nil
}

// SetExposeAnswer reveals the answer. Requires an open question.
func (s *State) SetExposeAnswer() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	s.exposeAnswer = true
	return nil
}

// SetShowBoard flips the board visible. Board visibility is match-level, not
// tied to a question lifecycle.
func (s *State) SetShowBoard() {
	s.showBoard = true
}

// RevealEnumItem increments the reveal counter of an enumerated-list question.
// The counter only ever grows within one question lifecycle.
func (s *State) RevealEnumItem() error {
	if s.active == nil {
		return domain.ErrNoActiveQuestion
	}
	if s.active.Type != domain.QuestionEnum {
		return ErrIllegalTransition
	}
	s.enumRevealAmount++
	return nil
}

// EnumRevealAmount returns the current reveal counter.
func (s *State) EnumRevealAmount() int {
	return s.enumRevealAmount
}

// SetTextInput records a participant's free-text answer, identified by
// connection. Rejected once the text inputs are locked.
func (s *State) SetTextInput(connID, text string) error {
	if s.lockTextInput {
		return ErrIllegalTransition
	}
	p, ok := s.participantByConnection(connID)
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.TextInput = text
	return nil
}

// SetChoice records a participant's multiple-choice answer, identified by
// connection. Rejected once the choices are locked.
func (s *State) SetChoice(connID string, choice int) error {
	if s.lockChoice {
		return ErrIllegalTransition
	}
	p, ok := s.participantByConnection(connID)
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Choice = choice
	return nil
}

// LockTextInput freezes all text inputs. Reports whether anything changed.
func (s *State) LockTextInput() (bool, error) {
	if s.active == nil {
		return false, domain.ErrNoActiveQuestion
	}
	if s.lockTextInput {
		return false, nil
	}
	s.lockTextInput = true
	return true, nil
}

// RevealTextInput shows everyone's text inputs. Only legal after LockTextInput;
// lock-then-reveal is a strict two-phase gate.
func (s *State) RevealTextInput() (bool, error) {
	if !s.lockTextInput {
		return false, ErrIllegalTransition
	}
	if s.revealTextInput {
		return false, nil
	}
	s.revealTextInput = true
	return true, nil
}

// LockChoice freezes all choice inputs. Reports whether anything changed.
func (s *State) LockChoice() (bool, error) {
	if s.active == nil {
		return false, domain.ErrNoActiveQuestion
	}
	if s.lockChoice {
		return false, nil
	}
	s.lockChoice = true
	return true, nil
}

// RevealChoice shows everyone's choices. Only legal after LockChoice.
func (s *State) RevealChoice() (bool, error) {
	if !s.lockChoice {
		return false, ErrIllegalTransition
	}
	if s.revealChoice {
		return false, nil
	}
	s.revealChoice = true
	return true, nil
}

// SetTeam assigns a participant to a team.
func (s *State) SetTeam(playerID string, teamID int) error {
	p, ok := s.participantByID(playerID)
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.TeamID = &teamID
	return nil
}

// ReplaceCategories swaps the whole board, e.g. after the editor saved a new
// question set. Answered flags and the per-question state are not carried over.
func (s *State) ReplaceCategories(categories []domain.Category) {
	s.categories = categories
}

// resetQuestionState wipes every per-question flag and all participant inputs.
// Called on open, abort and complete so a new question always starts clean.
func (s *State) resetQuestionState() {
	s.exposeQuestion = false
	s.exposeAnswer = false
	s.enumRevealAmount = 0
	s.lockTextInput = false
	s.revealTextInput = false
	s.lockChoice = false
	s.revealChoice = false
	for _, p := range s.players {
		p.TextInput = ""
		p.Choice = domain.NoChoice
	}
}
