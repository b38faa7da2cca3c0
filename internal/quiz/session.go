package quiz

import (
	"fmt"
	"strings"
)

// State is the lifecycle position of a session.
type State int

const (
	StateEmpty      State = iota // No session exists
	StateInProgress              // At least one question is unanswered
	StateComplete                // Every question has an answer
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInProgress:
		return "in-progress"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one user's attempt at a quiz. The only mutation is
// SubmitAnswer, which appends a raw token and advances by one, so the number
// of answers always equals the current index.
type Session struct {
	topic   string
	set     *QuizSet
	answers []string
}

// Initialize starts a session for topic over the given questions.
// An empty list yields ErrEmptyGeneration and no session.
func Initialize(topic string, questions []Question) (*Session, error) {
	set, err := NewQuizSet(questions)
	if err != nil {
		return nil, err
	}
	return &Session{
		topic:   strings.TrimSpace(topic),
		set:     set,
		answers: make([]string, 0, set.Len()),
	}, nil
}

// State reports where the session is in its lifecycle. A nil session is
// StateEmpty.
func (s *Session) State() State {
	switch {
	case s == nil || s.set.Len() == 0:
		return StateEmpty
	case len(s.answers) >= s.set.Len():
		return StateComplete
	default:
		return StateInProgress
	}
}

// SubmitAnswer records token as the answer to the current question and
// advances. The token is stored as submitted and only interpreted at scoring
// time. An empty or whitespace-only token leaves the session untouched.
func (s *Session) SubmitAnswer(token string) (State, error) {
	switch s.State() {
	case StateEmpty:
		return StateEmpty, ErrNoActiveSession
	case StateComplete:
		return StateComplete, ErrSessionComplete
	}
	if strings.TrimSpace(token) == "" {
		return StateInProgress, ErrMissingAnswer
	}
	s.answers = append(s.answers, token)
	return s.State(), nil
}

// CurrentQuestion returns the next unanswered question.
func (s *Session) CurrentQuestion() (Question, error) {
	switch s.State() {
	case StateEmpty:
		return Question{}, ErrNoActiveSession
	case StateComplete:
		return Question{}, ErrSessionComplete
	}
	return s.set.At(len(s.answers)), nil
}

// CurrentIndex is the zero-based position of the next unanswered question.
func (s *Session) CurrentIndex() int {
	if s == nil {
		return 0
	}
	return len(s.answers)
}

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return s.set.Len()
}

// Topic returns the topic the quiz was generated for.
func (s *Session) Topic() string {
	if s == nil {
		return ""
	}
	return s.topic
}

// Questions returns a copy of the quiz questions.
func (s *Session) Questions() []Question {
	if s == nil {
		return nil
	}
	return s.set.Questions()
}

// Answers returns a copy of the raw answer tokens in submission order.
func (s *Session) Answers() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.answers))
	copy(out, s.answers)
	return out
}

// SessionData is the plain serializable form of a Session, as held by
// session stores.
type SessionData struct {
	Topic        string     `json:"topic"`
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"current_index"`
	Answers      []string   `json:"answers"`
}

// Snapshot returns the session as plain data.
func (s *Session) Snapshot() SessionData {
	if s == nil {
		return SessionData{}
	}
	return SessionData{
		Topic:        s.topic,
		Questions:    s.set.Questions(),
		CurrentIndex: len(s.answers),
		Answers:      s.Answers(),
	}
}

// Restore rebuilds a session from data, re-checking the question invariant
// and that the answer count matches the current index.
func Restore(data SessionData) (*Session, error) {
	set, err := NewQuizSet(data.Questions)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if data.CurrentIndex != len(data.Answers) {
		return nil, fmt.Errorf("restore session: index %d does not match %d answers",
			data.CurrentIndex, len(data.Answers))
	}
	if len(data.Answers) > set.Len() {
		return nil, fmt.Errorf("restore session: %d answers for %d questions",
			len(data.Answers), set.Len())
	}
	answers := make([]string, len(data.Answers), set.Len())
	copy(answers, data.Answers)
	return &Session{topic: data.Topic, set: set, answers: answers}, nil
}
