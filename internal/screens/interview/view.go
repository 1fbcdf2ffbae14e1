package interview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/ui/components"
	"github.com/abhisek/triagez/internal/ui/layout"
	"github.com/abhisek/triagez/internal/ui/theme"
)

var waitingLines = []string{
	"Scoring your symptoms",
	"Comparing against known conditions",
	"Deciding what to ask next",
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	if v, ok := s.ctrl.Session(); ok && len(v.Symptoms) > 0 {
		b.WriteString(layout.Centered(theme.Hint.Render("Reported: "+strings.Join(v.Symptoms, ", ")), width))
		b.WriteString("\n")
		b.WriteString(layout.Centered(layout.Rule(cw), width))
		b.WriteString("\n\n")
	}

	switch s.phase {
	case phaseInput:
		b.WriteString(s.renderInput(cw, width))
	case phaseWaiting:
		line := waitingLines[(s.ticks/12)%len(waitingLines)]
		b.WriteString(layout.Centered(s.spinner.View()+" "+theme.Body.Render(line+"..."), width))
	case phaseQuestion:
		b.WriteString(s.renderQuestion(cw, width))
	case phaseError:
		b.WriteString(layout.Centered(theme.ErrorText.Render(s.errMsg), width))
		b.WriteString("\n\n")
		if s.retry != nil {
			b.WriteString(layout.Centered(theme.Hint.Render("Press R to try again, or Esc to give up."), width))
		}
	}

	if v, ok := s.ctrl.Session(); ok && len(v.Ranking) > 0 && s.phase == phaseQuestion {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Hint.Render("Current leads"), width))
		b.WriteString("\n")
		for i, c := range v.Ranking {
			if i == 3 {
				break
			}
			label := fmt.Sprintf("%-24.24s", c.Disease)
			bar := components.NewScoreBar(label, c.Score, v.Thresholds.ConfidenceCeiling, v.Thresholds.RelevanceFloor, cw)
			b.WriteString(layout.Centered(bar.View(), width))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (s *Screen) renderInput(cw, width int) string {
	var b strings.Builder
	b.WriteString(layout.Centered(theme.Title.Render("What brings you in today?"), width))
	b.WriteString("\n\n")
	if s.notice != "" {
		b.WriteString(layout.Centered(theme.Warning.Width(cw).Render(s.notice), width))
		b.WriteString("\n\n")
	}
	s.input.SetWidth(cw - 4)
	b.WriteString(layout.Centered(theme.Card.Width(cw).Render(s.input.View()), width))
	return b.String()
}

func (s *Screen) renderQuestion(cw, width int) string {
	var b strings.Builder
	b.WriteString(layout.Centered(theme.Subtitle.Render("Are you also experiencing"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Question.Width(cw).Align(lipgloss.Center).Render(s.question+"?"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(s.confirm.View(), width))
	return b.String()
}
