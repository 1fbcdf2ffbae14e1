package result

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triagez/internal/explain"
	iv "github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/policy"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/router"
	"github.com/abhisek/triagez/internal/screen"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (stubScreen) Title() string                             { return "stub" }

func testDecision() iv.Decision {
	return iv.Decision{
		Kind: iv.KindRecommend,
		Result: &iv.Result{
			Department: "Neurology",
			Symptoms:   []string{"headache", "stiff neck"},
			Candidates: []ranker.Candidate{
				{Disease: "Meningitis", Department: "Neurology", Score: 0.82},
				{Disease: "Migraine", Department: "Neurology", Score: 0.41},
			},
			Explanation: &explain.Explanation{
				Text:        "A stiff neck with headache needs prompt review.",
				Departments: []string{"Emergency"},
			},
		},
	}
}

func testView() iv.SessionView {
	return iv.SessionView{QuestionCount: 1, Thresholds: policy.DefaultThresholds()}
}

func TestResultScreen_ShowsDepartmentAndExplanation(t *testing.T) {
	s := New(testDecision(), testView(), nil)
	view := s.View(100, 40)

	for _, want := range []string{"Neurology", "Meningitis", "stiff neck", "prompt review", "Emergency"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestResultScreen_ExhaustedWithoutDepartment(t *testing.T) {
	d := iv.Decision{Kind: iv.KindExhausted, Result: &iv.Result{Symptoms: []string{"tired"}}}
	view := New(d, testView(), nil).View(100, 40)
	if !strings.Contains(view, "couldn't narrow") {
		t.Error("expected no-department message")
	}
}

func TestResultScreen_EnterPops(t *testing.T) {
	s := New(testDecision(), testView(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestResultScreen_NewInterviewReplaces(t *testing.T) {
	s := New(testDecision(), testView(), func() screen.Screen { return stubScreen{} })
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd == nil {
		t.Fatal("expected a command on N")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if msg.Screen.Title() != "stub" {
		t.Errorf("unexpected replacement %q", msg.Screen.Title())
	}
}

func TestResultScreen_NewInterviewNeedsFactory(t *testing.T) {
	s := New(testDecision(), testView(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd != nil {
		t.Error("expected no command without a factory")
	}
}
