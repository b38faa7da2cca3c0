package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/scoring"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// ResultScreen shows the score and a scrollable review of every answer.
type ResultScreen struct {
	result    scoring.Result
	offset    int
	maxOffset int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a ResultScreen.
func New(res scoring.Result) *ResultScreen {
	return &ResultScreen{result: res}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Results"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "New topic"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter", "esc", "n":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "q":
		return s, tea.Quit
	case "up", "k":
		s.scroll(-1)
	case "down", "j":
		s.scroll(1)
	case "pgup":
		s.scroll(-10)
	case "pgdown", "space":
		s.scroll(10)
	case "home", "g":
		s.offset = 0
	case "end", "G":
		s.offset = s.maxOffset
	}
	return s, nil
}

func (s *ResultScreen) scroll(delta int) {
	s.offset = max(0, min(s.offset+delta, s.maxOffset))
}

// View renders the score banner above a scrolled window of review cards.
// It records the scroll bound for the given height.
func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	banner := s.renderBanner(center)
	bodyHeight := max(height-lipgloss.Height(banner)-1, 1)

	lines := strings.Split(s.renderReview(cw), "\n")
	s.maxOffset = max(len(lines)-bodyHeight, 0)
	s.offset = min(s.offset, s.maxOffset)

	visible := lines[s.offset:min(s.offset+bodyHeight, len(lines))]
	body := center.Render(strings.Join(visible, "\n"))

	return banner + "\n" + body
}

func (s *ResultScreen) renderBanner(center lipgloss.Style) string {
	res := s.result
	gradeColor := theme.Accent
	switch {
	case res.Score >= 80:
		gradeColor = theme.Success
	case res.Score < 50:
		gradeColor = theme.Error
	}

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Quiz complete: " + res.Topic))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(gradeColor).Bold(true).Render(fmt.Sprintf("%d%%  %s", res.Score, res.Grade())))
	b.WriteString("\n")
	summary := fmt.Sprintf("%d of %d correct", res.CorrectCount, res.Total)
	if res.Answered < res.Total {
		summary += fmt.Sprintf(" (%d unanswered)", res.Total-res.Answered)
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(summary))
	b.WriteString("\n")
	return b.String()
}

func (s *ResultScreen) renderReview(cw int) string {
	cards := make([]string, 0, len(s.result.Review))
	for _, rec := range s.result.Review {
		cards = append(cards, renderCard(rec, cw))
	}
	return strings.Join(cards, "\n")
}

func renderCard(rec scoring.ReviewRecord, cw int) string {
	mc := components.NewRevealedChoice(
		fmt.Sprintf("%d. %s", rec.Number, rec.Question),
		rec.Options, rec.SelectedIndex, rec.CorrectIndex,
	)

	left := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Left)

	var b strings.Builder
	b.WriteString(left.Render(mc.View()))
	b.WriteString("\n")

	verdict := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Incorrect")
	if rec.IsCorrect {
		verdict = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Correct")
	}
	b.WriteString(left.Render(verdict + lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Your answer: "+rec.UserAnswer)))
	if !rec.IsCorrect {
		b.WriteString("\n")
		b.WriteString(left.Foreground(theme.TextDim).Render("Correct answer: " + rec.CorrectAnswer))
	}
	b.WriteString("\n\n")
	b.WriteString(left.Foreground(theme.Text).Italic(true).Render(rec.Explanation))

	return components.OutcomeCard(b.String(), cw, rec.IsCorrect)
}
