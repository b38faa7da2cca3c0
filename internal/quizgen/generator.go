// Package quizgen turns a free-form topic into a validated multiple-choice
// quiz using an LLM provider.
package quizgen

import (
	"context"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Generator produces quiz questions for a topic.
type Generator interface {
	// Generate returns a validated quiz set for input.Topic. A topic the
	// model refuses yields a *RejectedError; any other failure yields a
	// *FailureError. All configured validators run before returning.
	Generate(ctx context.Context, input Input) (*quiz.QuizSet, error)
}

// Input holds the context needed to generate a quiz.
type Input struct {
	// Topic is the user's free-form topic, already trimmed.
	Topic string
}
