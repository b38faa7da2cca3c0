package quiz

import (
	"fmt"
	"strings"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

// DefaultExplanation replaces an explanation the generator left out.
const DefaultExplanation = "No explanation provided."

// Question is one multiple-choice quiz item.
type Question struct {
	// Text is the prompt shown to the user. Never empty.
	Text string `json:"question"`

	// Options holds exactly OptionCount distinct display strings.
	Options []string `json:"options"`

	// CorrectIndex is the index into Options of the correct answer.
	CorrectIndex int `json:"answer"`

	// Explanation is shown in the review after the quiz ends.
	Explanation string `json:"explanation"`
}

// Validate checks the question invariant: non-empty text, exactly
// OptionCount non-empty distinct options and an in-range correct index.
func (q Question) Validate() error {
	return q.validate(-1)
}

func (q Question) validate(index int) error {
	fail := func(format string, args ...any) error {
		return &InvalidQuestionError{Index: index, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(q.Text) == "" {
		return fail("question text is empty")
	}
	if len(q.Options) != OptionCount {
		return fail("expected %d options, got %d", OptionCount, len(q.Options))
	}

	seen := make(map[string]int, len(q.Options))
	for i, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			return fail("option %d is empty", i+1)
		}
		if prev, ok := seen[key]; ok {
			return fail("options %d and %d are identical", prev+1, i+1)
		}
		seen[key] = i
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fail("correct index %d out of range [0,%d]", q.CorrectIndex, len(q.Options)-1)
	}
	return nil
}

// normalized returns a deep copy with surrounding whitespace trimmed and the
// placeholder explanation filled in.
func (q Question) normalized() Question {
	out := Question{
		Text:         strings.TrimSpace(q.Text),
		Options:      make([]string, len(q.Options)),
		CorrectIndex: q.CorrectIndex,
		Explanation:  strings.TrimSpace(q.Explanation),
	}
	for i, opt := range q.Options {
		out.Options[i] = strings.TrimSpace(opt)
	}
	if out.Explanation == "" {
		out.Explanation = DefaultExplanation
	}
	return out
}

// CorrectOption returns the display text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// QuizSet is an ordered, immutable collection of validated questions.
type QuizSet struct {
	questions []Question
}

// NewQuizSet validates and copies questions into a QuizSet. It returns
// ErrEmptyGeneration for an empty list and an *InvalidQuestionError for the
// first malformed question.
func NewQuizSet(questions []Question) (*QuizSet, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyGeneration
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		if err := q.validate(i); err != nil {
			return nil, err
		}
		out[i] = q.normalized()
	}
	return &QuizSet{questions: out}, nil
}

// Len returns the number of questions.
func (s *QuizSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.questions)
}

// At returns a copy of the i-th question.
func (s *QuizSet) At(i int) Question {
	return s.questions[i].normalized()
}

// Questions returns a copy of every question in order.
func (s *QuizSet) Questions() []Question {
	if s == nil {
		return nil
	}
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.normalized()
	}
	return out
}
