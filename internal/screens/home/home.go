package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
	"github.com/abhisek/triagez/internal/screens/history"
	"github.com/abhisek/triagez/internal/store"
	"github.com/abhisek/triagez/internal/ui/components"
	"github.com/abhisek/triagez/internal/ui/layout"
	"github.com/abhisek/triagez/internal/ui/theme"
)

type statsLoadedMsg struct {
	Counts []store.OutcomeCount
	Err    error
}

// HomeScreen is the landing screen.
type HomeScreen struct {
	menu      components.Menu
	eventRepo store.EventRepo
	counts    []store.OutcomeCount
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. newInterview builds a fresh interview screen;
// eventRepo may be nil, which disables history.
func New(newInterview func() screen.Screen, eventRepo store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{
			Label: "START INTERVIEW",
			Hint:  "describe what's wrong",
			Action: func() tea.Cmd {
				next := newInterview()
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		},
		{
			Label:    "HISTORY",
			Hint:     "past outcomes",
			Disabled: eventRepo == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(eventRepo)} }
			},
		},
		{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		menu:      components.NewMenu(items),
		eventRepo: eventRepo,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.eventRepo == nil {
		return nil
	}
	repo := h.eventRepo
	return func() tea.Msg {
		counts, err := repo.InterviewOutcomeCounts(context.Background())
		return statsLoadedMsg{Counts: counts, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		if m.Err == nil {
			h.counts = m.Counts
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || height < 18
	cw := min(layout.ContentWidth(width), 56)

	sections := []string{
		renderTitle(cw, compact),
		theme.Subtitle.Width(cw).Render("Answer a few questions. Find the right department."),
	}
	if h.eventRepo != nil {
		sections = append(sections, renderStats(h.counts, cw))
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
