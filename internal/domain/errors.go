package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEmptyQuestionPool aborts a round whose quiz has no questions.
	ErrEmptyQuestionPool = errors.New("question pool is empty")
	// ErrQuestionPoolTooLarge aborts a round whose questions cannot fit the two-digit record field.
	ErrQuestionPoolTooLarge = errors.New("question pool exceeds 99 questions")
	// ErrMissingCollaborator aborts a round built without a required dependency.
	ErrMissingCollaborator = errors.New("missing round collaborator")
	// ErrRoundNotFound is returned when a round id is unknown.
	ErrRoundNotFound = errors.New("round not found")
	// ErrRoundStarted is returned when Start is called twice.
	ErrRoundStarted = errors.New("round already started")
	// ErrRoundNotActive is returned by operations that need a running round.
	ErrRoundNotActive = errors.New("round is not active")
	// ErrAlternativeOutOfRange rejects a selection outside the current question.
	ErrAlternativeOutOfRange = errors.New("alternative out of range")
	// ErrAlternativeDisabled rejects a selection removed by a power-up.
	ErrAlternativeDisabled = errors.New("alternative disabled")
	// ErrPowerUpsDisabled is returned when power-ups are switched off for the round.
	ErrPowerUpsDisabled = errors.New("power-ups disabled")
	// ErrPowerUpActive is returned when the same power-up is already running.
	ErrPowerUpActive = errors.New("power-up already active")
	// ErrUnknownPowerUp indicates an unrecognized power-up name or code.
	ErrUnknownPowerUp = errors.New("unknown power-up")
	// ErrNotEnoughAlternatives means eliminate-two has fewer than two wrong alternatives to remove.
	ErrNotEnoughAlternatives = errors.New("not enough wrong alternatives")
	// ErrMalformedRecord indicates an encoded answer record could not be parsed.
	ErrMalformedRecord = errors.New("malformed answer record")
)
