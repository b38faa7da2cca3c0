// Package app hosts the terminal UI: a router of screens inside a frame
// with a header and a footer of key hints.
package app

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/topic"
	"github.com/abhisek/quizgen/internal/screens/welcome"
	"github.com/abhisek/quizgen/internal/ui/layout"
)

// Options holds the dependencies the UI runs on.
type Options struct {
	Service *quizflow.Service
	// User keys the session store. The terminal UI has one user per process.
	User string
	// SkipSplash starts directly on the topic screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router         *router.Router
	width          int
	height         int
	quotaRemaining int
	quotaLimit     int
}

// newAppModel creates a new AppModel. The splash replaces itself with the
// topic screen, which then stays at the root of the stack.
func newAppModel(opts Options) AppModel {
	newTopic := func() screen.Screen {
		return topic.New(opts.Service, opts.User)
	}
	var initial screen.Screen
	if opts.SkipSplash {
		initial = newTopic()
	} else {
		initial = welcome.New(newTopic)
	}
	return AppModel{
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.QuotaMsg:
		m.quotaRemaining = msg.Remaining
		m.quotaLimit = msg.Limit
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.quotaRemaining, m.quotaLimit, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Service == nil {
		return errors.New("app: no quiz service")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
