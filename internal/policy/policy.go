// Package policy decides, from a ranking and the interview counters, whether
// an interview should stop and why.
package policy

import "fmt"

// Decision is the outcome of a single policy evaluation.
type Decision int

const (
	AskNext         Decision = iota // Keep probing with another follow-up
	NoRelevantMatch                 // Input does not describe a recognizable condition
	Confident                       // Top candidate is decisive
	Exhausted                       // Question budget, decline budget, or pool used up
)

func (d Decision) String() string {
	switch d {
	case AskNext:
		return "ask-next"
	case NoRelevantMatch:
		return "no-relevant-match"
	case Confident:
		return "confident"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Terminal reports whether the decision ends the interview.
func (d Decision) Terminal() bool {
	return d != AskNext
}

// Thresholds holds the numeric limits the policy evaluates against.
type Thresholds struct {
	// RelevanceFloor is the score a candidate must exceed to count as a
	// real condition.
	RelevanceFloor float64

	// ConfidenceCeiling is the score the top candidate must exceed, and every
	// runner-up must stay below, for a confident stop.
	ConfidenceCeiling float64

	// MaxQuestions caps follow-up questions per interview.
	MaxQuestions int

	// MaxNegativeStreak caps consecutive "no" answers.
	MaxNegativeStreak int
}

// DefaultThresholds returns the product thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RelevanceFloor:    0.6,
		ConfidenceCeiling: 0.7,
		MaxQuestions:      4,
		MaxNegativeStreak: 3,
	}
}

// Validate checks that the thresholds are internally consistent.
func (t Thresholds) Validate() error {
	if t.RelevanceFloor < 0 || t.RelevanceFloor > 1 {
		return fmt.Errorf("relevance floor %.2f outside [0,1]", t.RelevanceFloor)
	}
	if t.ConfidenceCeiling < 0 || t.ConfidenceCeiling > 1 {
		return fmt.Errorf("confidence ceiling %.2f outside [0,1]", t.ConfidenceCeiling)
	}
	if t.RelevanceFloor > t.ConfidenceCeiling {
		return fmt.Errorf("relevance floor %.2f above confidence ceiling %.2f", t.RelevanceFloor, t.ConfidenceCeiling)
	}
	if t.MaxQuestions <= 0 {
		return fmt.Errorf("max questions must be positive, got %d", t.MaxQuestions)
	}
	if t.MaxNegativeStreak <= 0 {
		return fmt.Errorf("max negative streak must be positive, got %d", t.MaxNegativeStreak)
	}
	return nil
}

// Input is everything a single evaluation looks at.
type Input struct {
	// Scores are the ranked candidate scores; index 0 is the top candidate.
	Scores []float64

	QuestionCount          int
	NegativeStreak         int
	HasRemainingCandidates bool
	RankerSaysSkip         bool
}

// Decide evaluates the rules in precedence order: relevance floor, then
// confidence, then exhaustion. It is a pure function of its arguments.
func Decide(in Input, th Thresholds) Decision {
	if !anyAbove(in.Scores, th.RelevanceFloor) {
		return NoRelevantMatch
	}

	if in.RankerSaysSkip || separated(in.Scores, th.ConfidenceCeiling) {
		return Confident
	}

	if in.QuestionCount >= th.MaxQuestions ||
		in.NegativeStreak >= th.MaxNegativeStreak ||
		!in.HasRemainingCandidates {
		return Exhausted
	}

	return AskNext
}

func anyAbove(scores []float64, floor float64) bool {
	for _, s := range scores {
		if s > floor {
			return true
		}
	}
	return false
}

// separated reports whether the top score clears the ceiling while every
// runner-up stays strictly below it.
func separated(scores []float64, ceiling float64) bool {
	if len(scores) == 0 || scores[0] <= ceiling {
		return false
	}
	for _, s := range scores[1:] {
		if s >= ceiling {
			return false
		}
	}
	return true
}
