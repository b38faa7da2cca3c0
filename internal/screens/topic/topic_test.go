package topic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	quizscreen "github.com/abhisek/quizgen/internal/screens/quiz"
	"github.com/abhisek/quizgen/internal/sessions"
)

type generatorFunc func(context.Context, quizgen.Input) (*quiz.QuizSet, error)

func (f generatorFunc) Generate(ctx context.Context, in quizgen.Input) (*quiz.QuizSet, error) {
	return f(ctx, in)
}

func oneQuestion(_ context.Context, in quizgen.Input) (*quiz.QuizSet, error) {
	return quiz.NewQuizSet([]quiz.Question{{
		Text:         "What is " + in.Topic + "?",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 0,
		Explanation:  "a",
	}})
}

func testTopicScreen(gen quizgen.Generator, limit int) *TopicScreen {
	now := func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	limiter := ratelimit.New(ratelimit.NewMemoryStore(now), limit, ratelimit.WithClock(now))
	svc := quizflow.New(gen, limiter, sessions.NewMemoryStore(0, now))
	return New(svc, "tui-user")
}

// runBatch executes every command of a batch and returns the messages,
// skipping spinner ticks.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		if c == nil {
			continue
		}
		if m := c(); m != nil {
			if _, tick := m.(spinnerTickMsg); !tick {
				out = append(out, m)
			}
		}
	}
	return out
}

func TestTopicScreen_Title(t *testing.T) {
	s := testTopicScreen(generatorFunc(oneQuestion), 5)
	if s.Title() != "New Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "New Quiz")
	}
}

func TestTopicScreen_EmptyTopic(t *testing.T) {
	s := testTopicScreen(generatorFunc(oneQuestion), 5)
	s.input.Model.SetValue("   ")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty topic")
	}
	if s.errMsg != "Please enter a quiz topic." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestTopicScreen_StartPushesQuiz(t *testing.T) {
	s := testTopicScreen(generatorFunc(oneQuestion), 5)
	s.input.Model.SetValue("  Tides ")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.loading {
		t.Fatal("expected loading after Enter")
	}
	if !strings.Contains(s.View(80, 20), "Tides") {
		t.Error("expected the loading line to name the topic")
	}

	var ready *quizReadyMsg
	for _, m := range runBatch(cmd) {
		if r, ok := m.(quizReadyMsg); ok {
			ready = &r
		}
	}
	if ready == nil {
		t.Fatal("expected quizReadyMsg")
	}
	if ready.Err != nil || ready.Topic != "Tides" {
		t.Fatalf("ready = %+v", ready)
	}

	_, cmd = s.Update(*ready)
	if s.loading {
		t.Error("expected loading cleared")
	}

	var pushed, quota bool
	for _, m := range runBatch(cmd) {
		switch m := m.(type) {
		case router.PushScreenMsg:
			_, pushed = m.Screen.(*quizscreen.QuizScreen)
		case screen.QuotaMsg:
			quota = m.Remaining == 4 && m.Limit == 5
		}
	}
	if !pushed {
		t.Error("expected the quiz screen to be pushed")
	}
	if !quota {
		t.Error("expected a quota refresh showing 4 of 5 left")
	}
}

func TestTopicScreen_GenerationError(t *testing.T) {
	gen := generatorFunc(func(context.Context, quizgen.Input) (*quiz.QuizSet, error) {
		return nil, errors.New("boom")
	})
	s := testTopicScreen(gen, 5)

	s.Update(quizReadyMsg{Topic: "x", Err: &quizflow.GenerationError{Topic: "x", Err: errors.New("boom")}})
	if s.loading {
		t.Error("expected loading cleared")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if strings.Contains(s.errMsg, "boom") {
		t.Errorf("internal error leaked to the user: %q", s.errMsg)
	}
}

func TestTopicScreen_InitClearsState(t *testing.T) {
	s := testTopicScreen(generatorFunc(oneQuestion), 5)
	s.input.Model.SetValue("old")
	s.errMsg = "stale"

	cmd := s.Init()
	if cmd == nil {
		t.Error("expected Init to return commands")
	}
	if s.input.Value() != "" || s.errMsg != "" {
		t.Errorf("expected cleared state, got input %q err %q", s.input.Value(), s.errMsg)
	}
}

func TestTopicScreen_IgnoresKeysWhileLoading(t *testing.T) {
	s := testTopicScreen(generatorFunc(oneQuestion), 5)
	s.loading = true
	s.input.Model.SetValue("keep")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.input.Value() != "keep" {
		t.Errorf("input changed while loading: %q", s.input.Value())
	}
}
