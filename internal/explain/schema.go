package explain

import "github.com/abhisek/triagez/internal/llm"

// ExplanationSchema defines the JSON schema for LLM explanation responses.
var ExplanationSchema = &llm.Schema{
	Name:        "triage-explanation",
	Description: "Department recommendation rationale for a finished symptom interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"patient_symptoms": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"departments": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"symptoms_to_ask": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 10,
			},
			"disease_probabilities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"disease": map[string]any{"type": "string"},
						"probability": map[string]any{
							"type":    "number",
							"minimum": 0.0,
							"maximum": 1.0,
						},
					},
					"required":             []any{"disease", "probability"},
					"additionalProperties": false,
				},
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Short rationale for the recommended department",
			},
		},
		"required":             []any{"patient_symptoms", "departments", "symptoms_to_ask", "disease_probabilities", "explanation"},
		"additionalProperties": false,
	},
}
