package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
	"github.com/abhisek/triagez/internal/store"
	"github.com/abhisek/triagez/internal/ui/layout"
	"github.com/abhisek/triagez/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Interviews []store.InterviewEvent
	Err        error
}

// HistoryScreen lists past interview outcomes, newest first.
type HistoryScreen struct {
	eventRepo  store.EventRepo
	interviews []store.InterviewEvent
	selected   int
	expanded   map[int]bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QueryInterviews(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Interviews: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.interviews = msg.Interviews
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.interviews)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.interviews) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No interviews yet.")
	}

	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.interviews {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		dept := ev.Department
		if dept == "" {
			dept = "-"
		}
		line := fmt.Sprintf("%s%s  %-10s %-18.18s %d questions  %s",
			prefix, ev.Timestamp.Format("Jan 02 15:04"), ev.Outcome, dept,
			ev.QuestionCount, formatDuration(ev.Duration))

		style := lipgloss.NewStyle().Foreground(outcomeColor(ev.Outcome))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(layout.Centered(style.Render(line), width))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := theme.Hint.Width(cw).Render("    " + strings.Join(ev.Symptoms, ", "))
			b.WriteString(layout.Centered(detail, width))
			b.WriteString("\n")
			if ev.Explanation != "" {
				b.WriteString(layout.Centered(theme.Body.Width(cw).Render("    "+ev.Explanation), width))
				b.WriteString("\n")
			}
		}
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case "recommend":
		return theme.Success
	case "exhausted":
		return theme.Secondary
	case "no_match":
		return theme.Accent
	default:
		return theme.Text
	}
}
