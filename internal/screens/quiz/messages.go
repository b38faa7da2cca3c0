package quiz

import (
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/scoring"
)

// answerMsg carries the outcome of a background Answer call.
type answerMsg struct {
	Outcome quizflow.AnswerOutcome
	Err     error
}

// resultMsg carries the scored session once the last answer is in.
type resultMsg struct {
	Result scoring.Result
	Err    error
}

// quitDoneMsg is sent after the session has been discarded.
type quitDoneMsg struct{}
