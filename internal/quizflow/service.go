// Package quizflow coordinates one user's way through a quiz: topic, quota,
// generation, answering, and the final result. Both the terminal UI and the
// HTTP server drive quizzes through a Service.
package quizflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/scoring"
	"github.com/abhisek/quizgen/internal/sessions"
)

// ErrTopicRequired means Start was called with a blank topic.
var ErrTopicRequired = errors.New("quiz topic is required")

// GenerationError wraps any failure between a granted quota and a usable
// session. The consumed quota is not refunded.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate quiz for %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	return target == quizgen.ErrGenerationFailed
}

// AnswerOutcome reports the state after an answer submission.
type AnswerOutcome struct {
	// Session is the user's session after the submission.
	Session *quiz.Session

	// Question is the question to show next. On a missing answer it is the
	// unchanged current question. Zero when Complete.
	Question quiz.Question

	// Complete is true once every question has been answered.
	Complete bool
}

// Option configures a Service.
type Option func(*Service)

// WithGenerateTimeout bounds each quiz generation, retries included.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// Service runs quizzes for many users, keyed by an opaque user id.
type Service struct {
	gen      quizgen.Generator
	limiter  *ratelimit.Limiter
	sessions sessions.Store
	timeout  time.Duration
}

// New returns a Service.
func New(gen quizgen.Generator, limiter *ratelimit.Limiter, store sessions.Store, opts ...Option) *Service {
	s := &Service{gen: gen, limiter: limiter, sessions: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateTimeout returns the per-generation deadline, zero when unbounded.
func (s *Service) GenerateTimeout() time.Duration {
	return s.timeout
}

// Start generates a quiz for topic and makes it the user's session,
// replacing any previous one. One unit of the daily quota is consumed before
// generation, whether or not generation succeeds.
func (s *Service) Start(ctx context.Context, user, topic string) (*quiz.Session, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}

	if _, err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	set, err := s.gen.Generate(genCtx, quizgen.Input{Topic: topic})
	if err != nil {
		return nil, &GenerationError{Topic: topic, Err: err}
	}

	session, err := quiz.Initialize(topic, set.Questions())
	if err != nil {
		return nil, &GenerationError{Topic: topic, Err: err}
	}

	if err := s.sessions.Set(ctx, user, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Current returns the user's session and the question awaiting an answer.
// The question is zero when the session is complete.
func (s *Service) Current(ctx context.Context, user string) (*quiz.Session, quiz.Question, error) {
	session, err := s.load(ctx, user)
	if err != nil {
		return nil, quiz.Question{}, err
	}
	if session.State() == quiz.StateComplete {
		return session, quiz.Question{}, nil
	}
	q, err := session.CurrentQuestion()
	if err != nil {
		return nil, quiz.Question{}, err
	}
	return session, q, nil
}

// Answer records token as the answer to the current question.
func (s *Service) Answer(ctx context.Context, user, token string) (AnswerOutcome, error) {
	session, err := s.load(ctx, user)
	if err != nil {
		return AnswerOutcome{}, err
	}

	state, err := session.SubmitAnswer(token)
	switch {
	case errors.Is(err, quiz.ErrMissingAnswer):
		q, qerr := session.CurrentQuestion()
		if qerr != nil {
			return AnswerOutcome{}, qerr
		}
		return AnswerOutcome{Session: session, Question: q}, err
	case errors.Is(err, quiz.ErrSessionComplete):
		return AnswerOutcome{Session: session, Complete: true}, err
	case err != nil:
		return AnswerOutcome{}, err
	}

	if err := s.sessions.Set(ctx, user, session); err != nil {
		return AnswerOutcome{}, fmt.Errorf("save session: %w", err)
	}

	out := AnswerOutcome{Session: session, Complete: state == quiz.StateComplete}
	if !out.Complete {
		if out.Question, err = session.CurrentQuestion(); err != nil {
			return AnswerOutcome{}, err
		}
	}
	return out, nil
}

// Result scores the user's session. A session with no answers has no
// result yet.
func (s *Service) Result(ctx context.Context, user string) (scoring.Result, error) {
	session, err := s.load(ctx, user)
	if err != nil {
		return scoring.Result{}, err
	}
	if len(session.Answers()) == 0 {
		return scoring.Result{}, quiz.ErrNoActiveSession
	}
	return scoring.Score(session), nil
}

// Reset discards the user's session.
func (s *Service) Reset(ctx context.Context, user string) error {
	return s.sessions.Clear(ctx, user)
}

// Quota reports today's generation usage.
func (s *Service) Quota(ctx context.Context) (ratelimit.Usage, error) {
	return s.limiter.Usage(ctx)
}

func (s *Service) load(ctx context.Context, user string) (*quiz.Session, error) {
	session, err := s.sessions.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, quiz.ErrNoActiveSession
	}
	return session, nil
}
