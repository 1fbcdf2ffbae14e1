// Package ranker talks to the candidate scoring service. Responses are
// parsed and validated here so the interview layer only sees typed values.
package ranker

import "context"

// Ranker scores a symptom description against the disease knowledge base.
type Ranker interface {
	// Rank returns candidates in the service's order; index 0 is the top
	// candidate. Transport-level failures are reported as *ErrUnavailable.
	Rank(ctx context.Context, req Request) (*Response, error)
}

// Request is a single scoring call.
type Request struct {
	// SymptomsText is the accumulated symptom list joined by ", ".
	SymptomsText string `json:"symptoms"`

	// SkipGenerativeStep asks the service to skip its slow generative
	// pass. Follow-up rounds always set it.
	SkipGenerativeStep bool `json:"skip_llm"`
}

// Candidate is one scored disease.
type Candidate struct {
	Disease    string  `json:"disease"`
	Department string  `json:"department"`
	Score      float64 `json:"score"`
	SourceText string  `json:"source_text,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Overlap    float64 `json:"overlap,omitempty"`
}

// Response is the parsed result of a scoring call.
type Response struct {
	Candidates         []Candidate `json:"candidates"`
	SuggestedFollowUps []string    `json:"suggested_follow_ups,omitempty"`
	SkipQuestions      bool        `json:"skip_questions"`
	NormalizedSymptoms []string    `json:"normalized_symptoms,omitempty"`
}

// Scores returns the scores of cands in ranking order.
func Scores(cands []Candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.Score
	}
	return out
}

// Top returns the first candidate, if any.
func Top(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	return cands[0], true
}
