package domain

import "errors"

var (
	// ErrNoQuestions means every source failed or yielded zero valid questions.
	ErrNoQuestions = errors.New("no questions available")
	// ErrBankNotFound indicates the bank content could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrAttemptNotFound is returned when an attempt ID is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrParticipantRequired rejects starting an attempt without a name.
	ErrParticipantRequired = errors.New("participant name required")
	// ErrSelectionRequired rejects an answer submission without a chosen option.
	ErrSelectionRequired = errors.New("selection required")
	// ErrAlreadyAnswered rejects a second submission for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered rejects advancing before the current question is answered.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrNotStarted rejects mutators before the attempt has begun.
	ErrNotStarted = errors.New("attempt not started")
	// ErrAttemptFinished rejects any mutator on a terminal attempt; hitting it
	// means the presentation adapter broke the contract.
	ErrAttemptFinished = errors.New("attempt already finished")
)
