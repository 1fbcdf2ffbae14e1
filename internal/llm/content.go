package llm

import (
	"encoding/json"
	"strings"
)

// decodeContent turns a provider's text output into Response.Content.
// Structured output has markdown fences stripped; free text is wrapped as a
// JSON string so Content is always valid JSON.
func decodeContent(text string, schema *Schema) json.RawMessage {
	if schema != nil {
		return json.RawMessage(stripFences(text))
	}
	b, err := json.Marshal(text)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return b
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
