package policy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func remaining(scores ...float64) Input {
	return Input{Scores: scores, HasRemainingCandidates: true}
}

func TestDecide(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		in   Input
		want Decision
	}{
		{"empty ranking", remaining(), NoRelevantMatch},
		{"single low score", remaining(0.3), NoRelevantMatch},
		{"exactly at floor is not relevant", remaining(0.6, 0.5), NoRelevantMatch},
		{"floor wins over skip flag", Input{Scores: []float64{0.5}, RankerSaysSkip: true}, NoRelevantMatch},
		{"clear winner", remaining(0.85, 0.2), Confident},
		{"single candidate above ceiling", remaining(0.71), Confident},
		{"top exactly at ceiling is not confident", remaining(0.7, 0.2), AskNext},
		{"runner-up exactly at ceiling blocks", remaining(0.9, 0.7), AskNext},
		{"tied band", remaining(0.8, 0.75), AskNext},
		{"skip flag forces confident", Input{Scores: []float64{0.65, 0.64}, RankerSaysSkip: true}, Confident},
		{"relevant but below ceiling", remaining(0.65, 0.62), AskNext},
		{"no remaining candidates", Input{Scores: []float64{0.65}}, Exhausted},
		{"question cap", Input{Scores: []float64{0.65}, QuestionCount: 4, HasRemainingCandidates: true}, Exhausted},
		{"negative cap", Input{Scores: []float64{0.65}, NegativeStreak: 3, HasRemainingCandidates: true}, Exhausted},
		{"confidence beats question cap", Input{Scores: []float64{0.9, 0.1}, QuestionCount: 4}, Confident},
		{"floor beats question cap", Input{Scores: []float64{0.2}, QuestionCount: 4}, NoRelevantMatch},
		{"relevant runner-up only", remaining(0.5, 0.65), AskNext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.in, th))
		})
	}
}

func TestDecide_TiedTopCandidatesExhaustWhenBudgetSpent(t *testing.T) {
	in := Input{Scores: []float64{0.8, 0.75}, QuestionCount: 4, HasRemainingCandidates: true}
	assert.Equal(t, Exhausted, Decide(in, DefaultThresholds()))
}

func TestDecide_ThirdDeclineExhaustsWithCandidatesLeft(t *testing.T) {
	// Three questions asked; one more "no" brings both counters up.
	in := Input{Scores: []float64{0.65, 0.62}, QuestionCount: 4, NegativeStreak: 3, HasRemainingCandidates: true}
	assert.Equal(t, Exhausted, Decide(in, DefaultThresholds()))

	in = Input{Scores: []float64{0.65, 0.62}, QuestionCount: 3, NegativeStreak: 3, HasRemainingCandidates: true}
	assert.Equal(t, Exhausted, Decide(in, DefaultThresholds()))
}

func randomInput(r *rand.Rand) Input {
	n := r.IntN(5)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = r.Float64()
	}
	return Input{
		Scores:                 scores,
		QuestionCount:          r.IntN(6),
		NegativeStreak:         r.IntN(5),
		HasRemainingCandidates: r.IntN(2) == 0,
		RankerSaysSkip:         r.IntN(4) == 0,
	}
}

func TestDecide_Properties(t *testing.T) {
	th := DefaultThresholds()
	r := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 5000; i++ {
		in := randomInput(r)
		got := Decide(in, th)

		if again := Decide(in, th); again != got {
			t.Fatalf("Decide not deterministic for %+v: %v then %v", in, got, again)
		}

		allLow := true
		for _, s := range in.Scores {
			if s > th.RelevanceFloor {
				allLow = false
			}
		}
		if allLow && got != NoRelevantMatch {
			t.Fatalf("all scores <= floor but got %v for %+v", got, in)
		}
		if in.QuestionCount >= th.MaxQuestions && got == AskNext {
			t.Fatalf("question cap reached but got AskNext for %+v", in)
		}
		if in.NegativeStreak >= th.MaxNegativeStreak && got == AskNext {
			t.Fatalf("negative cap reached but got AskNext for %+v", in)
		}
		if !in.HasRemainingCandidates && got == AskNext {
			t.Fatalf("nothing to ask but got AskNext for %+v", in)
		}
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.RelevanceFloor = 0.8
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.MaxQuestions = 0
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.MaxNegativeStreak = -1
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.ConfidenceCeiling = 1.2
	assert.Error(t, bad.Validate())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "confident", Confident.String())
	assert.Equal(t, "no-relevant-match", NoRelevantMatch.String())
	assert.True(t, Exhausted.Terminal())
	assert.False(t, AskNext.Terminal())
}
