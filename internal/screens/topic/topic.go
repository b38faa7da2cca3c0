// Package topic is the entry screen: the user types a topic and a quiz is
// generated for it in the background.
package topic

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	quizscreen "github.com/abhisek/quizgen/internal/screens/quiz"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

const (
	maxTopicLen      = 120
	spinnerInterval  = 100 * time.Millisecond
	quotaCallTimeout = 5 * time.Second
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TopicScreen collects a topic and starts a quiz.
type TopicScreen struct {
	svc     *quizflow.Service
	user    string
	input   components.TextInput
	loading bool
	topic   string
	frame   int
	errMsg  string
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)

// New creates a TopicScreen for user.
func New(svc *quizflow.Service, user string) *TopicScreen {
	return &TopicScreen{
		svc:   svc,
		user:  user,
		input: components.NewTextInput("e.g. The French Revolution", maxTopicLen),
	}
}

// Init clears any previous topic and refreshes the quota. It runs again
// whenever the app returns to this screen.
func (s *TopicScreen) Init() tea.Cmd {
	s.input.Reset()
	s.loading = false
	s.errMsg = ""
	return tea.Batch(s.input.Init(), s.fetchQuota())
}

func (s *TopicScreen) Title() string {
	return "New Quiz"
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate quiz"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = quizflow.Message(msg.Err)
			return s, s.fetchQuota()
		}
		next := quizscreen.New(s.svc, s.user, msg.Session)
		return s, tea.Batch(
			s.fetchQuota(),
			func() tea.Msg { return router.PushScreenMsg{Screen: next} },
		)

	case spinnerTickMsg:
		if !s.loading {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if msg.String() == "enter" {
			return s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TopicScreen) submit() (screen.Screen, tea.Cmd) {
	topic := s.input.TrimmedValue()
	if topic == "" {
		s.errMsg = quizflow.Message(quizflow.ErrTopicRequired)
		return s, nil
	}

	s.loading = true
	s.topic = topic
	s.errMsg = ""
	s.frame = 0

	svc, user := s.svc, s.user
	start := func() tea.Msg {
		session, err := svc.Start(context.Background(), user, topic)
		return quizReadyMsg{Topic: topic, Session: session, Err: err}
	}
	return s, tea.Batch(start, spinnerTick())
}

func (s *TopicScreen) fetchQuota() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quotaCallTimeout)
		defer cancel()
		u, err := svc.Quota(ctx)
		if err != nil {
			return nil
		}
		return screen.QuotaMsg{Remaining: u.Remaining, Limit: u.Limit}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *TopicScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("What do you want to be quizzed on?"))
	b.WriteString("\n\n")
	b.WriteString(components.ArcadeCard(s.input.View(), cw))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		line := spinnerFrames[s.frame] + " Generating questions about " + s.topic + "..."
		b.WriteString(center.Foreground(theme.Secondary).Render(line))
	case s.errMsg != "":
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	default:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Any subject works. Press Enter to generate."))
	}

	return components.CabinetFrame(b.String(), width, height)
}
