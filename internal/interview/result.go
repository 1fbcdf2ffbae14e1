package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/triagez/internal/explain"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/symptom"
)

// Result is the packaged outcome of a finished interview.
type Result struct {
	// Department comes from the top candidate; empty when the final ranking
	// had no candidates.
	Department  string               `json:"department"`
	Symptoms    []string             `json:"symptoms"`
	Candidates  []ranker.Candidate   `json:"candidates"`
	Explanation *explain.Explanation `json:"explanation,omitempty"`
}

// assembler builds results. The resolver is optional; its failures only cost
// the explanation.
type assembler struct {
	resolver explain.Resolver
	logger   *zap.Logger
}

func (a *assembler) assemble(ctx context.Context, symptoms *symptom.Set, ranking []ranker.Candidate) *Result {
	res := &Result{
		Symptoms:   symptoms.List(),
		Candidates: append([]ranker.Candidate(nil), ranking...),
	}
	if len(ranking) > 0 {
		res.Department = ranking[0].Department
	}

	if a.resolver == nil {
		return res
	}

	exp, err := a.resolver.Resolve(ctx, symptoms.Join(", "))
	if err != nil {
		a.logger.Warn("explanation unavailable", zap.Error(err))
		return res
	}
	res.Explanation = exp
	return res
}
