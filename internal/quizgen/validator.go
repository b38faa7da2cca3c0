package quizgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Validator checks a generated quiz before it reaches the user.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "count".
	Name() string

	// Validate returns nil if the questions pass, or a ValidationError.
	Validate(questions []quiz.Question, cfg Config) *ValidationError
}

// ValidationError describes why a generated quiz failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// CountValidator requires exactly Config.QuestionCount questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(questions []quiz.Question, cfg Config) *ValidationError {
	if len(questions) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "no questions returned", Retryable: true}
	}
	if cfg.QuestionCount > 0 && len(questions) != cfg.QuestionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d questions, got %d", cfg.QuestionCount, len(questions)),
			Retryable: true,
		}
	}
	return nil
}

// StructuralValidator applies the quiz model's own checks to every question.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(questions []quiz.Question, _ Config) *ValidationError {
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			var iqe *quiz.InvalidQuestionError
			msg := err.Error()
			if errors.As(err, &iqe) {
				msg = iqe.Reason
			}
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: %s", i+1, msg),
				Retryable: true,
			}
		}
	}
	return nil
}

// DuplicateValidator rejects quizzes that ask the same question twice.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(questions []quiz.Question, _ Config) *ValidationError {
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		key := strings.ToLower(strings.Join(strings.Fields(q.Text), " "))
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("questions %d and %d are the same", j+1, i+1),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}
