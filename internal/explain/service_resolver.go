package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceResolver asks the scoring service to run its full pipeline and
// parses the "answer" field of the reply.
type ServiceResolver struct {
	baseURL string
	client  *http.Client
}

var _ Resolver = (*ServiceResolver)(nil)

// NewServiceResolver creates a resolver for the scoring service at baseURL.
func NewServiceResolver(baseURL string, timeout time.Duration) *ServiceResolver {
	return &ServiceResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type serviceRequest struct {
	Symptoms string `json:"symptoms"`
	SkipLLM  bool   `json:"skip_llm"`
}

type serviceResponse struct {
	Answer json.RawMessage `json:"answer"`
	Error  string          `json:"error"`
}

func (r *ServiceResolver) Resolve(ctx context.Context, symptomsText string) (*Explanation, error) {
	body, err := json.Marshal(serviceRequest{Symptoms: symptomsText})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explanation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read explanation response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("explanation service returned %d", resp.StatusCode)
	}

	var out serviceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// Not JSON at all: keep the body as text.
		return ParseText(string(raw)), nil
	}
	if out.Error != "" {
		return nil, fmt.Errorf("explanation service: %s", out.Error)
	}
	return Parse(out.Answer), nil
}
