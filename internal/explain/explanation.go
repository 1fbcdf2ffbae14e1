// Package explain resolves a human-readable rationale for a finished
// interview. Explanations annotate a result; they never drive decisions.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// Resolver produces an explanation for the final symptom list.
type Resolver interface {
	Resolve(ctx context.Context, symptomsText string) (*Explanation, error)
}

// DiseaseProbability is one scored disease inside an explanation.
type DiseaseProbability struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
}

// Explanation is the parsed rationale. When Structured is false only Text is
// meaningful and holds whatever the resolver returned verbatim.
type Explanation struct {
	Structured           bool                 `json:"structured"`
	PatientSymptoms      []string             `json:"patient_symptoms,omitempty"`
	Departments          []string             `json:"departments,omitempty"`
	SymptomsToAsk        []string             `json:"symptoms_to_ask,omitempty"`
	DiseaseProbabilities []DiseaseProbability `json:"disease_probabilities,omitempty"`
	Text                 string               `json:"explanation"`
}

// payload mirrors the object shape a resolver may return.
type payload struct {
	PatientSymptoms      []string             `json:"patient_symptoms"`
	Departments          []string             `json:"departments"`
	SymptomsToAsk        []string             `json:"symptoms_to_ask"`
	DiseaseProbabilities []DiseaseProbability `json:"disease_probabilities"`
	Explanation          string               `json:"explanation"`
}

// Parse turns a raw resolver payload into an Explanation. It accepts a JSON
// object, a JSON string holding an object, or free text with an object
// embedded in it. Anything else is wrapped as plain text.
func Parse(raw []byte) *Explanation {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &Explanation{}
	}

	// A JSON string literal: unwrap it and parse its contents.
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return ParseText(s)
		}
	}

	if exp, ok := parseObject(trimmed); ok {
		return exp
	}
	return ParseText(string(raw))
}

// ParseText parses free text that may contain a JSON object.
func ParseText(text string) *Explanation {
	if obj, ok := ExtractObject(text); ok {
		if exp, ok := parseObject(obj); ok {
			return exp
		}
	}
	return &Explanation{Text: strings.TrimSpace(text)}
}

// ExtractObject returns the outermost {...} span of text, if any.
func ExtractObject(text string) ([]byte, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}

func parseObject(b []byte) (*Explanation, bool) {
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &Explanation{
		Structured:           true,
		PatientSymptoms:      p.PatientSymptoms,
		Departments:          p.Departments,
		SymptomsToAsk:        p.SymptomsToAsk,
		DiseaseProbabilities: p.DiseaseProbabilities,
		Text:                 p.Explanation,
	}, true
}
