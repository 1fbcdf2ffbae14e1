package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/store"
	"github.com/abhisek/triagez/internal/ui/theme"
)

const titleFull = `▀█▀ █▀█ █ ▄▀█ █▀▀ █▀▀ ▀█
 █  █▀▄ █ █▀█ █▄█ ██▄ █▄`

const titleCompact = "t r i a g e z"

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(art))
}

// renderStats summarises past interviews, e.g. "12 interviews · 9 referred".
func renderStats(counts []store.OutcomeCount, cw int) string {
	if len(counts) == 0 {
		return theme.Subtitle.Width(cw).Render("No interviews yet")
	}

	var total, referred int
	for _, c := range counts {
		total += c.Count
		if c.Outcome == "recommend" || c.Outcome == "exhausted" {
			referred += c.Count
		}
	}

	parts := []string{
		theme.Selected.Render(fmt.Sprintf("%d", total)) + theme.Hint.Render(" interviews"),
		theme.Department.Render(fmt.Sprintf("%d", referred)) + theme.Hint.Render(" referred"),
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(parts, theme.Hint.Render("  ·  ")))
}
