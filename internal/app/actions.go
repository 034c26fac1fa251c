package app

import (
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// Action is the closed set of state transitions a connection can request. Each
// variant carries its typed payload; the dispatcher matches the set
// exhaustively, so a new action that lacks a handler can't slip through as a
// mistyped event name.
type Action interface {
	isAction()
}

// Envelope pairs an action with the connection that sent it.
type Envelope struct {
	ConnID string
	Action Action
}

// JoinAction creates a fresh participant. The generated identity is unicast to
// the joining connection only.
type JoinAction struct {
	Name string
}

// RejoinAction rebinds an existing identity to the requesting connection.
type RejoinAction struct {
	Identity string
	Name     string
}

// RequestGameStateAction asks for a unicast snapshot of the current state.
type RequestGameStateAction struct{}

// RemovePlayerAction evicts a participant and disconnects their connection.
type RemovePlayerAction struct {
	PlayerID string
}

// UpdatePointsAction applies a moderator point correction.
type UpdatePointsAction struct {
	PlayerID string
	Delta    int
}

// OpenQuestionAction opens a board question, matched by category name and
// prompt text.
type OpenQuestionAction struct {
	CategoryName string
	Question     domain.Question
}

// AbortQuestionAction closes the active question without marking it answered.
type AbortQuestionAction struct{}

// CompleteQuestionAction closes the active question, marks it answered and
// advances the turn.
type CompleteQuestionAction struct{}

// SelectRandomTurnAction starts the random turn selection animation.
type SelectRandomTurnAction struct{}

// BuzzAction claims the buzzer lock for the sending connection's participant.
type BuzzAction struct{}

// ResetBuzzerAction releases the buzzer lock.
type ResetBuzzerAction struct{}

// CorrectAnswerAction scores the buzzed player's correct answer and exposes
// the answer.
type CorrectAnswerAction struct{}

// WrongAnswerAction penalizes the buzzed player and releases the buzzer so
// others may buzz.
type WrongAnswerAction struct{}

// ExposeQuestionAction reveals the prompt of the active question.
type ExposeQuestionAction struct{}

// ExposeAnswerAction reveals the answer of the active question.
type ExposeAnswerAction struct{}

// ShowBoardAction makes the board visible to players.
type ShowBoardAction struct{}

// RevealEnumItemAction reveals the next item of an enumerated-list question.
type RevealEnumItemAction struct{}

// UpdateTextInputAction records the sender's free-text answer.
type UpdateTextInputAction struct {
	Text string
}

// LockTextInputAction freezes all text inputs.
type LockTextInputAction struct{}

// RevealTextInputAction shows everyone's text inputs (only after locking).
type RevealTextInputAction struct{}

// UpdateChoiceAction records the sender's multiple-choice answer.
type UpdateChoiceAction struct {
	Choice int
}

// LockChoiceAction freezes all choice inputs.
type LockChoiceAction struct{}

// RevealChoiceAction shows everyone's choices (only after locking).
type RevealChoiceAction struct{}

// SetPlayerTeamAction assigns a participant to a team.
type SetPlayerTeamAction struct {
	PlayerID string
	TeamID   int
}

// LaunchFireworksAction broadcasts the current leader for the fireworks
// overlay. Does not mutate state.
type LaunchFireworksAction struct{}

// ReplaceBoardAction swaps the whole category set, e.g. after the board editor
// saved a new question file.
type ReplaceBoardAction struct {
	Categories []domain.Category
}

// rotationTickAction is posted into the inbox by the turn rotation scheduler
// so turn advances happen on the game loop like every other mutation.
type rotationTickAction struct {
	gen uint64
}

func (JoinAction) isAction()             {}
func (RejoinAction) isAction()           {}
func (RequestGameStateAction) isAction() {}
func (RemovePlayerAction) isAction()     {}
func (UpdatePointsAction) isAction()     {}
func (OpenQuestionAction) isAction()     {}
func (AbortQuestionAction) isAction()    {}
func (CompleteQuestionAction) isAction() {}
func (SelectRandomTurnAction) isAction() {}
func (BuzzAction) isAction()             {}
func (ResetBuzzerAction) isAction()      {}
func (CorrectAnswerAction) isAction()    {}
func (WrongAnswerAction) isAction()      {}
func (ExposeQuestionAction) isAction()   {}
func (ExposeAnswerAction) isAction()     {}
func (ShowBoardAction) isAction()        {}
func (RevealEnumItemAction) isAction()   {}
func (UpdateTextInputAction) isAction()  {}
func (LockTextInputAction) isAction()    {}
func (RevealTextInputAction) isAction()  {}
func (UpdateChoiceAction) isAction()     {}
func (LockChoiceAction) isAction()       {}
func (RevealChoiceAction) isAction()     {}
func (SetPlayerTeamAction) isAction()    {}
func (LaunchFireworksAction) isAction()  {}
func (ReplaceBoardAction) isAction()     {}
func (rotationTickAction) isAction()     {}
