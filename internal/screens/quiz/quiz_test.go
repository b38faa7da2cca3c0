package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	domain "github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screens/result"
	"github.com/abhisek/quizgen/internal/sessions"
)

const testUser = "tui-user"

type stubGenerator struct{ n int }

func (g stubGenerator) Generate(_ context.Context, _ quizgen.Input) (*domain.QuizSet, error) {
	qs := make([]domain.Question, g.n)
	for i := range qs {
		qs[i] = domain.Question{
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 1,
			Explanation:  "b is right",
		}
	}
	return domain.NewQuizSet(qs)
}

func testQuizScreen(t *testing.T, n int) (*QuizScreen, *quizflow.Service) {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	limiter := ratelimit.New(ratelimit.NewMemoryStore(now), 10, ratelimit.WithClock(now))
	svc := quizflow.New(stubGenerator{n: n}, limiter, sessions.NewMemoryStore(0, now))

	session, err := svc.Start(context.Background(), testUser, "Rivers")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return New(svc, testUser, session), svc
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// press sends a key and feeds the resulting command's message back in.
func press(t *testing.T, s *QuizScreen, key tea.KeyPressMsg) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(key)
	if cmd == nil {
		return nil
	}
	_, next := s.Update(cmd())
	return next
}

func TestQuizScreen_Title(t *testing.T) {
	s, _ := testQuizScreen(t, 2)
	if s.Title() != "Rivers" {
		t.Errorf("Title = %q, want %q", s.Title(), "Rivers")
	}
}

func TestQuizScreen_AnswerAdvances(t *testing.T) {
	s, _ := testQuizScreen(t, 3)
	if !strings.Contains(s.View(80, 20), "Question 1 of 3") {
		t.Fatal("expected first question header")
	}

	if cmd := press(t, s, keyPress('2')); cmd != nil {
		t.Fatalf("unexpected follow-up command after a mid-quiz answer")
	}

	view := s.View(80, 20)
	if !strings.Contains(view, "Question 2 of 3") {
		t.Errorf("expected second question header, got:\n%s", view)
	}
	if s.choice.Submitted {
		t.Error("expected a fresh choice for the next question")
	}
	if got := s.session.Answers(); len(got) != 1 || got[0] != "1" {
		t.Errorf("answers = %v, want [1]", got)
	}
}

func TestQuizScreen_LetterKeysAnswer(t *testing.T) {
	s, _ := testQuizScreen(t, 2)
	press(t, s, keyPress('c'))
	if got := s.session.Answers(); len(got) != 1 || got[0] != "2" {
		t.Errorf("answers = %v, want [2]", got)
	}
}

func TestQuizScreen_LastAnswerShowsResult(t *testing.T) {
	s, _ := testQuizScreen(t, 2)
	press(t, s, keyPress('2'))

	// The last answer triggers scoring, then a screen replacement.
	cmd := press(t, s, keyPress('1'))
	if cmd == nil {
		t.Fatal("expected a scoring command after the last answer")
	}
	_, replace := s.Update(cmd())
	if replace == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := replace().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", replace())
	}
	if _, ok := msg.Screen.(*result.ResultScreen); !ok {
		t.Errorf("expected result screen, got %T", msg.Screen)
	}
}

func TestQuizScreen_IgnoresKeysWhileSubmitting(t *testing.T) {
	s, _ := testQuizScreen(t, 3)
	_, cmd := s.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("expected answer command")
	}
	if _, again := s.Update(keyPress('2')); again != nil {
		t.Error("expected keys to be ignored while an answer is in flight")
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s, svc := testQuizScreen(t, 3)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit {
		t.Fatal("expected quit confirm after Esc")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected N to dismiss quit confirm")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	cmd := press(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected navigation after confirming quit")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}

	_, _, err := svc.Current(context.Background(), testUser)
	if !errors.Is(err, domain.ErrNoActiveSession) {
		t.Errorf("expected session cleared, got %v", err)
	}
}

func TestQuizScreen_ExpiredSessionShowsMessage(t *testing.T) {
	s, svc := testQuizScreen(t, 3)
	if err := svc.Reset(context.Background(), testUser); err != nil {
		t.Fatal(err)
	}

	press(t, s, keyPress('1'))
	if s.errMsg != quizflow.Message(domain.ErrNoActiveSession) {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.choice.Submitted {
		t.Error("expected the choice to be unlocked for a retry")
	}
}
