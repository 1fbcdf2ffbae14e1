package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
	"github.com/abhisek/triagez/internal/ui/components"
	"github.com/abhisek/triagez/internal/ui/layout"
	"github.com/abhisek/triagez/internal/ui/theme"
)

// Screen shows the recommendation at the end of an interview.
type Screen struct {
	decision iv.Decision
	session  iv.SessionView
	again    func() screen.Screen
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a result screen. again, when non-nil, starts a new interview.
func New(d iv.Decision, session iv.SessionView, again func() screen.Screen) *Screen {
	return &Screen{decision: d, session: session, again: again}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Recommendation"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "New interview"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "n":
		if s.again != nil {
			next := s.again()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	res := s.decision.Result
	if res == nil {
		return layout.Centered(theme.Hint.Render("\n\nNo result available."), width)
	}
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	if res.Department == "" {
		b.WriteString(layout.Centered(theme.Warning.Render("We couldn't narrow this down to a department."), width))
	} else {
		b.WriteString(layout.Centered(theme.Subtitle.Render("Suggested department"), width))
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Department.Render(res.Department), width))
	}
	b.WriteString("\n")
	if s.decision.Kind == iv.KindExhausted {
		b.WriteString(layout.Centered(theme.Hint.Render("Best match after the follow-up questions ran out."), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(layout.Centered(theme.Body.Width(cw).Render("Symptoms: "+strings.Join(res.Symptoms, ", ")), width))
	b.WriteString("\n")
	if s.session.QuestionCount > 0 {
		b.WriteString(layout.Centered(theme.Hint.Width(cw).Render(
			fmt.Sprintf("%d follow-up questions asked", s.session.QuestionCount)), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, c := range res.Candidates {
		if i == 5 {
			break
		}
		label := fmt.Sprintf("%-20.20s %-14.14s", c.Disease, c.Department)
		bar := components.NewScoreBar(label, c.Score,
			s.session.Thresholds.ConfidenceCeiling, s.session.Thresholds.RelevanceFloor, cw)
		b.WriteString(layout.Centered(bar.View(), width))
		b.WriteString("\n")
	}

	if exp := res.Explanation; exp != nil {
		b.WriteString("\n")
		b.WriteString(layout.Centered(layout.Rule(cw), width))
		b.WriteString("\n")
		if exp.Text != "" {
			b.WriteString(layout.Centered(theme.Body.Width(cw).Render(exp.Text), width))
			b.WriteString("\n")
		}
		if len(exp.Departments) > 0 {
			b.WriteString(layout.Centered(theme.Hint.Width(cw).Render(
				"Also consider: "+strings.Join(exp.Departments, ", ")), width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint.Render("This is guidance, not a diagnosis. Seek urgent care for severe symptoms."), width))

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}
