package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call. Implementations wrap a vendor
// SDK; decorators add logging, retries and deadlines.
type Provider interface {
	// Generate returns Content validated against req.Schema when one is set.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single-turn prompt. Explanations send one user message.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the provider's structured output mode and
	// the answer is checked against it before Generate returns.
	Schema *Schema

	MaxTokens int

	// Temperature 0 leaves the provider default in place.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the answer must satisfy. Name doubles as the
// compiled-schema key, so one name must always carry the same Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a successful completion. Without a Schema, Content is the raw
// text encoded as a JSON string.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
