package topic

import (
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
)

// quizReadyMsg carries the outcome of a background Start call.
type quizReadyMsg struct {
	Topic   string
	Session *quiz.Session
	Err     error
}

// spinnerTickMsg animates the loading line.
type spinnerTickMsg time.Time
