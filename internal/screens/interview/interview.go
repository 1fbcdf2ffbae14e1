package interview

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	iv "github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
	"github.com/abhisek/triagez/internal/screens/result"
	"github.com/abhisek/triagez/internal/symptom"
	"github.com/abhisek/triagez/internal/ui/components"
	"github.com/abhisek/triagez/internal/ui/layout"
	"github.com/abhisek/triagez/internal/ui/theme"
)

// Interviewer is the part of interview.Controller the screen drives.
type Interviewer interface {
	Submit(ctx context.Context, text string) (iv.Decision, error)
	Answer(ctx context.Context, yes bool) (iv.Decision, error)
	Abandon()
	Session() (iv.SessionView, bool)
}

type phase int

const (
	phaseInput phase = iota
	phaseWaiting
	phaseQuestion
	phaseError
)

const noMatchNotice = "We couldn't match that to a condition we know. Try describing your symptoms differently."

// Screen runs one interview: free-text entry, then yes/no follow-ups until
// the controller reaches a result.
type Screen struct {
	ctx     context.Context
	ctrl    Interviewer
	again   func() screen.Screen
	input   components.TextInput
	confirm components.Confirm
	spinner spinner.Model

	phase    phase
	resume   phase // phase to return to if a call is rejected as busy
	question string
	notice   string
	errMsg   string
	retry    tea.Cmd
	ticks    int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ screen.EscapeHandler = (*Screen)(nil)

// New creates an interview screen. again builds a fresh interview screen for
// the result screen's "new interview" action and may be nil.
func New(ctx context.Context, ctrl Interviewer, again func() screen.Screen) *Screen {
	return &Screen{
		ctx:     ctx,
		ctrl:    ctrl,
		again:   again,
		input:   components.NewTextInput("e.g. headache and a stiff neck since yesterday", 500),
		confirm: components.NewConfirm(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Selected),
		),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Interview"
}

func (s *Screen) HandlesEscape() bool {
	return true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Y/N", Description: "Answer"},
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseWaiting:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

// Status shows the remaining question budget while an interview is live.
func (s *Screen) Status() string {
	v, ok := s.ctrl.Session()
	if !ok || v.State == iv.StateTerminal {
		return ""
	}
	return fmt.Sprintf("%d questions left · %d/%d no", v.QuestionsLeft(), v.NegativeStreak, v.Thresholds.MaxNegativeStreak)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decisionMsg:
		return s.handleDecision(msg)

	case spinner.TickMsg:
		if s.phase != phaseWaiting {
			return s, nil
		}
		s.ticks++
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		s.ctrl.Abandon()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.phase {
	case phaseInput:
		if msg.String() == "enter" {
			return s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseQuestion:
		s.confirm = s.confirm.Update(msg)
		if s.confirm.Answered {
			return s, s.wait(s.answerCmd(s.confirm.Yes))
		}

	case phaseError:
		if msg.String() == "r" && s.retry != nil {
			return s, s.wait(s.retry)
		}
	}
	return s, nil
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	text := s.input.Value()
	if symptom.Normalize(text) == "" {
		s.input.Reject("Describe at least one symptom.")
		return s, nil
	}
	s.notice = ""
	return s, s.wait(s.submitCmd(text))
}

func (s *Screen) wait(call tea.Cmd) tea.Cmd {
	s.resume = s.phase
	s.phase = phaseWaiting
	s.errMsg = ""
	s.ticks = 0
	return tea.Batch(call, s.spinner.Tick)
}

func (s *Screen) submitCmd(text string) tea.Cmd {
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		d, err := s.ctrl.Submit(s.ctx, text)
		return decisionMsg{Decision: d, Err: err, retry: cmd}
	}
	return cmd
}

func (s *Screen) answerCmd(yes bool) tea.Cmd {
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		d, err := s.ctrl.Answer(s.ctx, yes)
		return decisionMsg{Decision: d, Err: err, retry: cmd}
	}
	return cmd
}

func (s *Screen) handleDecision(msg decisionMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, iv.ErrSessionAbandoned):
		return s, nil
	case errors.Is(msg.Err, iv.ErrBusy):
		s.phase = s.resume
		if s.phase == phaseQuestion {
			s.confirm.Reset()
		}
		return s, nil
	case errors.Is(msg.Err, iv.ErrSessionClosed):
		// Fall through with the stored outcome.
	case errors.Is(msg.Err, iv.ErrServiceUnavailable):
		s.phase = phaseError
		s.errMsg = "The scoring service is unavailable right now."
		s.retry = msg.retry
		return s, nil
	case msg.Err != nil:
		s.phase = phaseError
		s.errMsg = msg.Err.Error()
		s.retry = nil
		return s, nil
	}

	d := msg.Decision
	switch d.Kind {
	case iv.KindAskQuestion:
		s.phase = phaseQuestion
		s.question = d.Question
		s.confirm.Reset()
		return s, nil

	case iv.KindNoMatch:
		s.phase = phaseInput
		s.notice = noMatchNotice
		s.input.Reset()
		return s, s.input.Init()
	}

	view, _ := s.ctrl.Session()
	next := result.New(d, view, s.again)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
