// Package quiz is the question screen. It submits one answer at a time
// through the flow service and hands over to the result screen when the
// last question is answered.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	domain "github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/result"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// QuizScreen presents the active session's questions.
type QuizScreen struct {
	svc     *quizflow.Service
	user    string
	session *domain.Session

	choice      components.MultiChoice
	submitting  bool
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen positioned at the session's current question.
func New(svc *quizflow.Service, user string, session *domain.Session) *QuizScreen {
	s := &QuizScreen{svc: svc, user: user, session: session}
	if q, err := session.CurrentQuestion(); err == nil {
		s.choice = components.NewMultiChoice(q.Text, q.Options)
	}
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return s.session.Topic()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4/A-D", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		return s.handleAnswer(msg)

	case resultMsg:
		if msg.Err != nil {
			s.errMsg = quizflow.Message(msg.Err)
			return s, nil
		}
		next := result.New(msg.Result)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case quitDoneMsg:
		return s, func() tea.Msg { return router.PopToRootMsg{} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.quit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.submitting {
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, nil
	}

	s.submitting = true
	s.errMsg = ""
	return s, s.answer(strconv.Itoa(s.choice.ChosenIndex))
}

func (s *QuizScreen) handleAnswer(msg answerMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	out := msg.Outcome

	switch {
	case errors.Is(msg.Err, domain.ErrSessionComplete):
		return s, s.score()
	case msg.Err != nil:
		s.errMsg = quizflow.Message(msg.Err)
		s.choice.Submitted = false
		s.choice.ChosenIndex = -1
		return s, nil
	}

	s.session = out.Session
	if out.Complete {
		return s, s.score()
	}
	s.choice = components.NewMultiChoice(out.Question.Text, out.Question.Options)
	return s, nil
}

func (s *QuizScreen) answer(token string) tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		out, err := svc.Answer(context.Background(), user, token)
		return answerMsg{Outcome: out, Err: err}
	}
}

func (s *QuizScreen) score() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		res, err := svc.Result(context.Background(), user)
		return resultMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) quit() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		// The session is abandoned either way; a failed clear only leaves
		// it to expire.
		_ = svc.Reset(context.Background(), user)
		return quitDoneMsg{}
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	total := s.session.Len()
	answered := s.session.CurrentIndex()
	number := min(answered+1, total)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", number, total)))
	b.WriteString("\n")

	b.WriteString(components.NewQuestionProgress(answered, total, cw).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.choice.View()))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Error).Render(s.errMsg))
	}

	if s.confirmQuit {
		b.WriteString("\n\n")
		b.WriteString(renderQuitConfirm(cw))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

func renderQuitConfirm(cw int) string {
	prompt := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render("Quit this quiz? Your answers will be discarded.")

	bw := (cw - 2) / 2
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		components.ArcadeButton("[Y] Quit", false, bw),
		"  ",
		components.ArcadeButton("[N] Keep going", true, bw),
	)
	return prompt + "\n" + buttons
}
