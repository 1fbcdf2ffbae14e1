package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-0.45) > 1e-9 {
		t.Errorf("cost = %f, want 0.45", got)
	}

	if LookupCost("some-private-model") != nil {
		t.Error("expected nil for unknown model")
	}

	// Default friendly names must resolve to priced models.
	for _, id := range []string{
		resolveModel("claude-haiku", anthropicModels),
		resolveModel("gpt-4o-mini", openaiModels),
		resolveModel("gemini-flash", geminiModels),
	} {
		if LookupCost(id) == nil {
			t.Errorf("no pricing for default model %q", id)
		}
	}
}
