package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Confirm is a yes/no selector. Yes is selected initially.
type Confirm struct {
	Yes      bool
	Answered bool
}

// NewConfirm creates a Confirm with Yes selected.
func NewConfirm() Confirm {
	return Confirm{Yes: true}
}

// Update handles y/n shortcuts, arrow navigation and Enter. Answered is set
// once a choice is made.
func (c Confirm) Update(msg tea.Msg) Confirm {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.Answered {
		return c
	}

	switch kmsg.String() {
	case "left", "h", "right", "l", "tab":
		c.Yes = !c.Yes
	case "y":
		c.Yes, c.Answered = true, true
	case "n":
		c.Yes, c.Answered = false, true
	case "enter":
		c.Answered = true
	}
	return c
}

// Reset clears the answer for the next question.
func (c *Confirm) Reset() {
	c.Yes = true
	c.Answered = false
}

// View renders both buttons side by side.
func (c Confirm) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		NewButton("Yes", c.Yes).View(),
		"   ",
		NewButton("No", !c.Yes).View(),
	)
}
