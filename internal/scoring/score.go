// Package scoring turns a quiz session's raw answers into a score and a
// per-question review. Scoring never fails: a bad answer token only degrades
// its own record.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
)

// InvalidAnswer replaces the user's answer text when the token could not be
// interpreted as an option index.
const InvalidAnswer = "invalid answer"

// Answer is a parsed answer token.
type Answer struct {
	Index int  // Option index, -1 when invalid
	Valid bool // True when Index refers to an existing option
}

// ParseAnswer interprets a raw token as a zero-based option index.
func ParseAnswer(token string, optionCount int) Answer {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 0 || n >= optionCount {
		return Answer{Index: -1}
	}
	return Answer{Index: n, Valid: true}
}

// ReviewRecord compares one answered question against its key.
type ReviewRecord struct {
	Number        int      `json:"number"` // 1-based
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	SelectedIndex int      `json:"selected_index"` // -1 when the answer was invalid
	UserAnswer    string   `json:"user_answer"`
	CorrectIndex  int      `json:"correct_index"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Explanation   string   `json:"explanation"`
}

// Result is the outcome of scoring a session.
type Result struct {
	Topic        string         `json:"topic"`
	Score        int            `json:"score"` // 0-100
	CorrectCount int            `json:"correct_count"`
	Total        int            `json:"total"`
	Answered     int            `json:"answered"`
	Review       []ReviewRecord `json:"review"`
}

// Score grades every answered question of s. Unanswered questions are left
// out of the review but still count toward Total.
func Score(s *quiz.Session) Result {
	res := Result{
		Topic:  s.Topic(),
		Total:  s.Len(),
		Review: []ReviewRecord{},
	}
	if res.Total == 0 {
		return res
	}

	questions := s.Questions()
	answers := s.Answers()
	if len(answers) > len(questions) {
		answers = answers[:len(questions)]
	}
	res.Answered = len(answers)

	for i, tok := range answers {
		q := questions[i]
		ans := ParseAnswer(tok, len(q.Options))

		rec := ReviewRecord{
			Number:        i + 1,
			Question:      q.Text,
			Options:       q.Options,
			SelectedIndex: ans.Index,
			UserAnswer:    InvalidAnswer,
			CorrectIndex:  q.CorrectIndex,
			CorrectAnswer: q.CorrectOption(),
			Explanation:   q.Explanation,
		}
		if ans.Valid {
			rec.UserAnswer = q.Options[ans.Index]
			rec.IsCorrect = ans.Index == q.CorrectIndex
		}
		if rec.IsCorrect {
			res.CorrectCount++
		}
		res.Review = append(res.Review, rec)
	}

	res.Score = Percent(res.CorrectCount, res.Total)
	return res
}

// Percent returns correct/total as a whole percentage, rounding halves up.
func Percent(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	p := roundHalfUp(float64(correct) * 100 / float64(total))
	return min(p, 100)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Grade returns a short verdict for the score.
func (r Result) Grade() string {
	switch {
	case r.Total > 0 && r.CorrectCount == r.Total:
		return "Perfect"
	case r.Score >= 80:
		return "Great"
	case r.Score >= 50:
		return "Good"
	default:
		return "Keep practicing"
	}
}
