package interview

import (
	tea "charm.land/bubbletea/v2"

	iv "github.com/abhisek/triagez/internal/interview"
)

// decisionMsg carries the controller's reply to a Submit or Answer. retry
// re-issues the same call.
type decisionMsg struct {
	Decision iv.Decision
	Err      error
	retry    tea.Cmd
}
