package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	iv "github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/router"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// run executes cmd and any batched commands, returning the first
// decisionMsg and every other message produced.
func run(t *testing.T, cmd tea.Cmd) (decisionMsg, []tea.Msg) {
	t.Helper()
	var (
		found decisionMsg
		ok    bool
		other []tea.Msg
	)
	var walk func(tea.Cmd)
	walk = func(c tea.Cmd) {
		if c == nil {
			return
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			for _, sub := range msg {
				walk(sub)
			}
		case decisionMsg:
			found, ok = msg, true
		default:
			other = append(other, msg)
		}
	}
	walk(cmd)
	if !ok {
		t.Fatal("expected a decision message")
	}
	return found, other
}

func ranked(followUps []string, scores ...float64) *ranker.Response {
	resp := &ranker.Response{SuggestedFollowUps: followUps}
	for _, s := range scores {
		resp.Candidates = append(resp.Candidates, ranker.Candidate{
			Disease: "Migraine", Department: "Neurology", Score: s,
		})
	}
	return resp
}

func newScreen(responses ...ranker.MockResponse) (*Screen, *ranker.MockRanker) {
	mock := ranker.NewMockRanker(responses...)
	ctrl := iv.New(mock, nil, iv.DefaultConfig())
	return New(context.Background(), ctrl, nil), mock
}

func submitText(t *testing.T, s *Screen, text string) decisionMsg {
	t.Helper()
	s.input.Model.SetValue(text)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if s.phase != phaseWaiting {
		t.Fatalf("expected waiting phase after submit, got %d", s.phase)
	}
	msg, _ := run(t, cmd)
	return msg
}

func TestInterviewScreen_BlankInputRejected(t *testing.T) {
	s, mock := newScreen()
	s.input.Model.SetValue("   ")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for blank input")
	}
	if s.phase != phaseInput {
		t.Errorf("expected to stay on input, got %d", s.phase)
	}
	if !strings.Contains(s.View(100, 30), "at least one symptom") {
		t.Error("expected validation message")
	}
	if mock.CallCount() != 0 {
		t.Error("ranker must not be called for blank input")
	}
}

func TestInterviewScreen_AsksThenRecommends(t *testing.T) {
	s, mock := newScreen(
		ranker.MockResponse{Response: ranked([]string{"nausea"}, 0.8, 0.75)},
		ranker.MockResponse{Response: ranked(nil, 0.9, 0.2)},
	)

	msg := submitText(t, s, "headache")
	s.Update(msg)
	if s.phase != phaseQuestion {
		t.Fatalf("expected question phase, got %d", s.phase)
	}
	if !strings.Contains(s.View(100, 30), "nausea") {
		t.Error("expected question in view")
	}
	if !strings.Contains(s.Status(), "4 questions left") {
		t.Errorf("unexpected status %q", s.Status())
	}

	_, cmd := s.Update(keyPress('y'))
	if s.phase != phaseWaiting {
		t.Fatalf("expected waiting after answer, got %d", s.phase)
	}
	msg, _ = run(t, cmd)
	if msg.Decision.Kind != iv.KindRecommend {
		t.Fatalf("expected recommend, got %s", msg.Decision.Kind)
	}

	_, cmd = s.Update(msg)
	if cmd == nil {
		t.Fatal("expected navigation to the result screen")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if replace.Screen.Title() != "Recommendation" {
		t.Errorf("unexpected screen %q", replace.Screen.Title())
	}
	if reqs := mock.Requests(); len(reqs) != 2 || !reqs[1].SkipGenerativeStep {
		t.Errorf("unexpected ranker requests %+v", reqs)
	}
}

func TestInterviewScreen_NoMatchReturnsToInput(t *testing.T) {
	s, _ := newScreen(ranker.MockResponse{Response: ranked(nil, 0.2)})

	msg := submitText(t, s, "blue elbow")
	s.Update(msg)

	if s.phase != phaseInput {
		t.Fatalf("expected input phase, got %d", s.phase)
	}
	if s.input.Value() != "" {
		t.Error("expected input to be cleared")
	}
	if !strings.Contains(s.View(100, 30), "couldn't match") {
		t.Error("expected no-match notice")
	}
}

func TestInterviewScreen_RetryAfterOutage(t *testing.T) {
	s, mock := newScreen(
		ranker.MockResponse{Err: &ranker.ErrUnavailable{StatusCode: 502}},
		ranker.MockResponse{Response: ranked([]string{"fever"}, 0.8, 0.75)},
	)

	msg := submitText(t, s, "headache")
	if !errors.Is(msg.Err, iv.ErrServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", msg.Err)
	}
	s.Update(msg)
	if s.phase != phaseError {
		t.Fatalf("expected error phase, got %d", s.phase)
	}

	_, cmd := s.Update(keyPress('r'))
	msg, _ = run(t, cmd)
	s.Update(msg)
	if s.phase != phaseQuestion || s.question != "fever" {
		t.Errorf("expected fever question after retry, got phase %d question %q", s.phase, s.question)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 ranker calls, got %d", mock.CallCount())
	}
}

func TestInterviewScreen_EscAbandons(t *testing.T) {
	s, _ := newScreen(ranker.MockResponse{Response: ranked([]string{"nausea"}, 0.8, 0.75)})
	s.Update(submitText(t, s, "headache"))

	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if _, ok := s.ctrl.Session(); ok {
		t.Error("expected session to be abandoned")
	}
}

func TestInterviewScreen_IgnoresAbandonedReply(t *testing.T) {
	s, _ := newScreen()
	s.phase = phaseWaiting

	s.Update(decisionMsg{Err: iv.ErrSessionAbandoned})
	if s.phase != phaseWaiting {
		t.Errorf("expected phase unchanged, got %d", s.phase)
	}
}

// busyInterviewer rejects every call as if another one were in flight.
type busyInterviewer struct{}

func (busyInterviewer) Submit(context.Context, string) (iv.Decision, error) {
	return iv.Decision{}, iv.ErrBusy
}
func (busyInterviewer) Answer(context.Context, bool) (iv.Decision, error) {
	return iv.Decision{}, iv.ErrBusy
}
func (busyInterviewer) Abandon()                        {}
func (busyInterviewer) Session() (iv.SessionView, bool) { return iv.SessionView{}, false }

func TestInterviewScreen_BusyReplyRestoresInput(t *testing.T) {
	s := New(context.Background(), busyInterviewer{}, nil)

	msg := submitText(t, s, "headache")
	s.Update(msg)
	if s.phase != phaseInput {
		t.Fatalf("expected input phase after busy reply, got %d", s.phase)
	}
	if s.input.Value() != "headache" {
		t.Errorf("expected input kept, got %q", s.input.Value())
	}
}

func TestInterviewScreen_BusyReplyRestoresQuestion(t *testing.T) {
	s := New(context.Background(), busyInterviewer{}, nil)
	s.phase = phaseQuestion
	s.question = "nausea"

	_, cmd := s.Update(keyPress('n'))
	if s.phase != phaseWaiting {
		t.Fatalf("expected waiting after answer, got %d", s.phase)
	}
	msg, _ := run(t, cmd)
	s.Update(msg)
	if s.phase != phaseQuestion {
		t.Fatalf("expected question phase after busy reply, got %d", s.phase)
	}
	if s.confirm.Answered {
		t.Error("expected the yes/no selector to accept a new answer")
	}
}
