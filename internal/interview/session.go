package interview

import (
	"time"

	"github.com/abhisek/triagez/internal/policy"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/symptom"
)

// State is the position of a session in the interview round protocol.
type State int

const (
	StateInit State = iota
	StateScoring
	StateAsking
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateScoring:
		return "scoring"
	case StateAsking:
		return "asking"
	case StateTerminal:
		return "terminal"
	}
	return "unknown"
}

// Session is the mutable state of one interview. It is owned by a single
// Controller and never shared.
type Session struct {
	ID        string
	StartedAt time.Time
	State     State

	// Symptoms the patient has reported or confirmed, in elicitation order.
	Symptoms *symptom.Set

	// Asked holds every follow-up already put to the patient, answered
	// yes or no.
	Asked *symptom.Set

	// Pool is the deduplicated suggestion list from the first scoring call.
	// Later rounds draw from it instead of asking for new suggestions.
	Pool []string

	QuestionCount  int
	NegativeStreak int
	SkipQuestions  bool
	LastRanking    []ranker.Candidate

	// Pending is the question awaiting an answer, empty otherwise.
	Pending string

	// Outcome is the terminal decision once State is StateTerminal.
	Outcome *Decision
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		StartedAt: now,
		State:     StateInit,
		Symptoms:  symptom.NewSet(),
		Asked:     symptom.NewSet(),
	}
}

// queue returns the pool entries still eligible to ask, in pool order.
func (s *Session) queue() []string {
	var out []string
	for _, c := range s.Pool {
		if s.Asked.Contains(c) || s.Symptoms.Contains(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Session) policyInput() policy.Input {
	return policy.Input{
		Scores:                 ranker.Scores(s.LastRanking),
		QuestionCount:          s.QuestionCount,
		NegativeStreak:         s.NegativeStreak,
		HasRemainingCandidates: len(s.queue()) > 0,
		RankerSaysSkip:         s.SkipQuestions,
	}
}

func (s *Session) view(th policy.Thresholds) SessionView {
	v := SessionView{
		ID:             s.ID,
		StartedAt:      s.StartedAt,
		State:          s.State,
		Symptoms:       s.Symptoms.List(),
		Asked:          s.Asked.List(),
		Pending:        s.Pending,
		QuestionCount:  s.QuestionCount,
		NegativeStreak: s.NegativeStreak,
		Ranking:        append([]ranker.Candidate(nil), s.LastRanking...),
		Remaining:      len(s.queue()),
		Thresholds:     th,
	}
	if s.Outcome != nil {
		d := *s.Outcome
		v.Outcome = &d
	}
	return v
}

// SessionView is a read-only snapshot of a session for display.
type SessionView struct {
	ID             string
	StartedAt      time.Time
	State          State
	Symptoms       []string
	Asked          []string
	Pending        string
	QuestionCount  int
	NegativeStreak int
	Ranking        []ranker.Candidate
	Remaining      int
	Thresholds     policy.Thresholds
	Outcome        *Decision
}

// QuestionsLeft is how many more follow-ups may be asked at most.
func (v SessionView) QuestionsLeft() int {
	return max(v.Thresholds.MaxQuestions-v.QuestionCount, 0)
}

// NegativesLeft is how many more consecutive "no" answers end the interview.
func (v SessionView) NegativesLeft() int {
	return max(v.Thresholds.MaxNegativeStreak-v.NegativeStreak, 0)
}
