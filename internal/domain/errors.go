package domain

import "errors"

var (
	// ErrUnknownIdentity is returned when a rejoin presents an identity the match
	// has never seen (or that was removed).
	ErrUnknownIdentity = errors.New("unknown participant identity")
	// ErrParticipantNotFound is returned when an action references a missing participant.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrCategoryNotFound is returned when an action references a missing category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrQuestionNotFound is returned when a question cannot be matched on the board.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoActiveQuestion is returned by mutations that require an open question.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrBoardNotFound indicates the question board could not be loaded.
	ErrBoardNotFound = errors.New("board not found")
)
