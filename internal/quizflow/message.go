package quizflow

import (
	"errors"
	"fmt"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
)

// Message returns the text shown to a user for err. Errors the user cannot
// act on get a generic message.
func Message(err error) string {
	var quota *ratelimit.QuotaExceededError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTopicRequired):
		return "Please enter a quiz topic."
	case errors.As(err, &quota):
		return fmt.Sprintf("You have reached the daily limit of %d quiz generations. Please try again tomorrow.", quota.Limit)
	case errors.Is(err, ratelimit.ErrQuotaExceeded):
		return "You have reached the daily limit of quiz generations. Please try again tomorrow."
	case errors.Is(err, quizgen.ErrTopicRejected):
		return "That topic can't be turned into a quiz. Please try a different topic."
	case errors.Is(err, quizgen.ErrGenerationFailed), errors.Is(err, quiz.ErrEmptyGeneration):
		return "Failed to generate quiz questions. Please try a different topic."
	case errors.Is(err, quiz.ErrMissingAnswer):
		return "Please select an answer."
	case errors.Is(err, quiz.ErrNoActiveSession):
		return "No active quiz. Please start with a topic."
	case errors.Is(err, quiz.ErrSessionComplete):
		return "This quiz is already complete. See your results."
	default:
		return "Something went wrong. Please try again."
	}
}
