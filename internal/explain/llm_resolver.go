package explain

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/abhisek/triagez/internal/llm"
)

// LLMConfig holds generation settings for the LLM resolver.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:   768,
		Temperature: 0.2,
	}
}

// LLMResolver asks an LLM provider for a structured explanation.
type LLMResolver struct {
	provider llm.Provider
	cfg      LLMConfig
}

var _ Resolver = (*LLMResolver)(nil)

// NewLLMResolver creates a resolver backed by provider.
func NewLLMResolver(provider llm.Provider, cfg LLMConfig) *LLMResolver {
	return &LLMResolver{provider: provider, cfg: cfg}
}

func (r *LLMResolver) Resolve(ctx context.Context, symptomsText string) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, "explanation")

	userMsg, err := buildExplanationMessage(symptomsText)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System: explanationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	return Parse(resp.Content), nil
}

const explanationSystemPrompt = `You are a medical triage assistant. A patient described symptoms and a short follow-up interview has finished. Explain which hospital department the patient should visit.

Instructions:
- List the patient's symptoms in patient_symptoms using short, normalized names.
- If the symptoms point to one department with high confidence, list only that department. Otherwise list the most relevant departments.
- Put additional mild or moderate symptoms worth asking about in symptoms_to_ask (at most 10, none the patient already reported).
- Give disease_probabilities in descending order of probability, each between 0 and 1.
- Keep the explanation short and concrete. Do not give a diagnosis or treatment advice.`

var explanationUserTemplate = template.Must(template.New("explanation").Parse(`Patient symptoms: {{.}}`))

func buildExplanationMessage(symptomsText string) (string, error) {
	var buf bytes.Buffer
	if err := explanationUserTemplate.Execute(&buf, symptomsText); err != nil {
		return "", err
	}
	return buf.String(), nil
}
