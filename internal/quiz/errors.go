package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGeneration means the generator produced no questions. Callers
	// treat it as a failed generation, never as a finished zero-question quiz.
	ErrEmptyGeneration = errors.New("quiz: no questions generated")

	// ErrNoActiveSession means there is no session to operate on.
	ErrNoActiveSession = errors.New("quiz: no active session")

	// ErrMissingAnswer means an answer was submitted without a token.
	ErrMissingAnswer = errors.New("quiz: missing answer")

	// ErrSessionComplete means every question has already been answered.
	ErrSessionComplete = errors.New("quiz: session complete")

	// ErrInvalidQuestion is matched by every *InvalidQuestionError.
	ErrInvalidQuestion = errors.New("quiz: invalid question")
)

// InvalidQuestionError describes a question rejected at ingestion.
type InvalidQuestionError struct {
	Index  int    // Position in the question list, -1 when validated on its own
	Reason string // Human-readable description of the defect
}

func (e *InvalidQuestionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("quiz: invalid question: %s", e.Reason)
	}
	return fmt.Sprintf("quiz: invalid question %d: %s", e.Index+1, e.Reason)
}

func (e *InvalidQuestionError) Unwrap() error {
	return ErrInvalidQuestion
}
