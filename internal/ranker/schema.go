package ranker

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const responseSchemaURL = "schema://ranker-response.json"

// responseSchema describes the /api/ask reply.
var responseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"retrieved_docs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text":        map[string]any{"type": "string"},
					"Disease":     map[string]any{"type": "string"},
					"Department":  map[string]any{"type": "string"},
					"similarity":  map[string]any{"type": "number"},
					"overlap":     map[string]any{"type": "number"},
					"final_score": map[string]any{"type": "number"},
				},
				"required": []any{"Disease", "Department", "final_score"},
			},
		},
		"normalized_symptoms": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"should_skip_questions": map[string]any{"type": "boolean"},
		"answer":                map[string]any{"type": []any{"object", "string", "null"}},
	},
	"required": []any{"retrieved_docs"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledResponseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees plain decoded values.
		raw, err := json.Marshal(responseSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(responseSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(responseSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateBody checks a decoded body against the response schema.
func validateBody(doc any) error {
	s, err := compiledResponseSchema()
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}
	return s.Validate(doc)
}
