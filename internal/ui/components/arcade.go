package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card on a screen, so
// question, input and review boxes line up.
func ContentWidth(frameWidth int) int {
	// Cabinet border (2) plus inner padding (4).
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border frame, centered both ways
// within width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a neutral rounded card of content width cw.
func ArcadeCard(content string, cw int) string {
	return card(content, cw, theme.Border)
}

// OutcomeCard is an ArcadeCard whose border shows whether the question
// under review was answered correctly.
func OutcomeCard(content string, cw int, correct bool) string {
	if correct {
		return card(content, cw, theme.Success)
	}
	return card(content, cw, theme.Error)
}

func card(content string, cw int, border color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders one choice of a confirm dialog. The selected button
// is the default taken on enter.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}
