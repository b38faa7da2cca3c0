package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// QuestionProgress draws one segment per question: answered, current and
// still to come.
type QuestionProgress struct {
	Answered int
	Total    int
	Width    int
}

// NewQuestionProgress returns a bar for a quiz of total questions with
// answered of them done, fitted to width cells.
func NewQuestionProgress(answered, total, width int) QuestionProgress {
	return QuestionProgress{Answered: answered, Total: total, Width: width}
}

// SegmentWidth is the cell width of each segment. Segments are separated by
// one blank cell and never narrower than one cell.
func (p QuestionProgress) SegmentWidth() int {
	if p.Total <= 0 {
		return 0
	}
	return max((p.Width-(p.Total-1))/p.Total, 1)
}

// View renders the bar. An empty quiz renders nothing.
func (p QuestionProgress) View() string {
	if p.Total <= 0 {
		return ""
	}
	seg := strings.Repeat(" ", p.SegmentWidth())
	done := lipgloss.NewStyle().Background(theme.Secondary)
	current := lipgloss.NewStyle().Background(theme.ArcadeYellow)
	pending := lipgloss.NewStyle().Background(theme.Border)

	parts := make([]string, p.Total)
	for i := range parts {
		switch {
		case i < p.Answered:
			parts[i] = done.Render(seg)
		case i == p.Answered:
			parts[i] = current.Render(seg)
		default:
			parts[i] = pending.Render(seg)
		}
	}
	return strings.Join(parts, " ")
}
