package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗ ██████╗ ███████╗███╗   ██╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██╔════╝ ██╔════╝████╗  ██║
 ██║   ██║██║   ██║██║  ███╔╝ ██║  ███╗█████╗  ██╔██╗ ██║
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██║   ██║██╔══╝  ██║╚██╗██║
 ╚██████╔╝╚██████╔╝██║███████╗╚██████╔╝███████╗██║ ╚████║
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝`

const bannerCompact = "Q U I Z G E N"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 60

// RenderBanner returns the banner in the primary color, or a one-line
// fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
