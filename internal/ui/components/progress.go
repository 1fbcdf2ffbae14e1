package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triagez/internal/ui/theme"
)

// ScoreBar displays a candidate score as a horizontal bar. Scores above
// High are drawn in the success colour, above Mid in the secondary colour.
type ScoreBar struct {
	Label string
	Score float64
	High  float64
	Mid   float64
	Width int
}

// NewScoreBar creates a score bar coloured against the given thresholds.
func NewScoreBar(label string, score, high, mid float64, width int) ScoreBar {
	return ScoreBar{
		Label: label,
		Score: score,
		High:  high,
		Mid:   mid,
		Width: width,
	}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	const scoreWidth = 6 // "  0.85"
	barWidth := max(p.Width-lipgloss.Width(result)-scoreWidth, 4)

	filled := min(max(int(float64(barWidth)*p.Score), 0), barWidth)

	fill := theme.ScoreLow
	switch {
	case p.Score > p.High:
		fill = theme.ScoreHigh
	case p.Score > p.Mid:
		fill = theme.ScoreMid
	}

	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ScoreEmpty.Render(strings.Repeat(" ", barWidth-filled))

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %.2f", p.Score))

	return result
}
