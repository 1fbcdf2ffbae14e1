package interview

import (
	"fmt"

	"github.com/abhisek/triagez/internal/policy"
)

// Kind tags a Decision.
type Kind int

const (
	KindAskQuestion Kind = iota // A follow-up question is pending
	KindRecommend               // Confident stop with a department
	KindNoMatch                 // Input matched no known condition
	KindExhausted               // Question budget spent; best-effort result
)

func (k Kind) String() string {
	switch k {
	case KindAskQuestion:
		return "ask"
	case KindRecommend:
		return "recommend"
	case KindNoMatch:
		return "no_match"
	case KindExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Terminal reports whether the interview is over.
func (k Kind) Terminal() bool {
	return k != KindAskQuestion
}

// Decision is what the caller sees after each Submit or Answer.
// Question is set for KindAskQuestion; Result is set for KindRecommend and
// KindExhausted. KindNoMatch carries neither.
type Decision struct {
	Kind     Kind    `json:"kind"`
	Question string  `json:"question,omitempty"`
	Result   *Result `json:"result,omitempty"`
}

func askQuestion(q string) Decision {
	return Decision{Kind: KindAskQuestion, Question: q}
}

func kindFor(d policy.Decision) Kind {
	switch d {
	case policy.Confident:
		return KindRecommend
	case policy.NoRelevantMatch:
		return KindNoMatch
	case policy.Exhausted:
		return KindExhausted
	}
	return KindAskQuestion
}
