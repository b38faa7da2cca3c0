package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// OptionLabel returns the letter shown next to option i.
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// MultiChoice is a multiple-choice selector component. Once submitted it
// ignores input. A revealed component also marks the correct option.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
	Revealed     bool
}

// NewMultiChoice creates a selector with no known answer.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: -1,
		ChosenIndex:  -1,
	}
}

// NewRevealedChoice renders an already-answered question with its key.
// chosen may be -1 when the answer could not be read.
func NewRevealedChoice(question string, options []string, chosen, correct int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correct,
		Selected:     chosen,
		Submitted:    true,
		ChosenIndex:  chosen,
		Revealed:     true,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Digits 1-9 and letters
// pick an option directly; enter picks the highlighted one.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		m.choose(m.Selected)
		return m, nil
	}

	if i, ok := directIndex(key); ok && i < len(m.Options) {
		m.Selected = i
		m.choose(i)
	}
	return m, nil
}

func (m *MultiChoice) choose(i int) {
	if i < 0 || i >= len(m.Options) {
		return
	}
	m.Submitted = true
	m.ChosenIndex = i
}

// directIndex maps "1".."9" and "a".."z" (either case) to an option index.
// "j" and "k" are navigation keys and handled before this is consulted.
func directIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	}
	return 0, false
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	var b strings.Builder
	b.WriteString(questionStyle.Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
			line += "  ✓"
		case m.Revealed && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
			line += "  ✗"
		case m.Submitted && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect reports whether a revealed choice matched the key.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed && m.ChosenIndex >= 0 && m.ChosenIndex == m.CorrectIndex
}
