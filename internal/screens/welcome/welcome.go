package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
	"github.com/abhisek/triagez/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond

	// Keys are ignored until the notice has been on screen this long.
	holdDuration = 1200 * time.Millisecond
)

const crossArt = `    ▐██▌
    ▐██▌
▐██████████▌
▐██████████▌
    ▐██▌
    ▐██▌`

var noticeLines = []string{
	"triagez suggests which department to visit.",
	"It does not diagnose and it is not medical advice.",
	"",
	"If this is an emergency, call your local emergency number now.",
}

type tickMsg time.Time

// WelcomeScreen shows the safety notice and waits for the user to acknowledge
// it before handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	acknowledged bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with homeFactory's screen.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Ready reports whether a key press will dismiss the notice.
func (w *WelcomeScreen) Ready() bool {
	return w.elapsed >= holdDuration
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.Ready() {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		if !w.Ready() {
			return w, nil
		}
		return w, w.acknowledge()
	}
	return w, nil
}

func (w *WelcomeScreen) acknowledge() tea.Cmd {
	if w.acknowledged {
		return nil
	}
	w.acknowledged = true
	next := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		theme.ErrorText.Render(crossArt),
		"",
		theme.Title.Render("t r i a g e z"),
		"",
	}

	notice := make([]string, len(noticeLines))
	for i, line := range noticeLines {
		if strings.Contains(line, "emergency") {
			notice[i] = theme.Warning.Render(line)
			continue
		}
		notice[i] = theme.Subtitle.Render(line)
	}
	sections = append(sections, theme.Card.Render(strings.Join(notice, "\n")))

	if w.Ready() {
		sections = append(sections, "", theme.Hint.Render("press any key to acknowledge"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
