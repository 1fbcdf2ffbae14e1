package ranker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/triagez/internal/explain"
	"github.com/abhisek/triagez/internal/logging"
)

// DefaultTimeout bounds a single scoring call.
const DefaultTimeout = 30 * time.Second

// HTTPRanker calls the scoring service's /api/ask endpoint.
type HTTPRanker struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

var _ Ranker = (*HTTPRanker)(nil)

// NewHTTPRanker creates a ranker for the service at baseURL. A zero timeout
// means DefaultTimeout.
func NewHTTPRanker(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPRanker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRanker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logging.OrNop(logger).Named("ranker"),
	}
}

// wireDoc is one entry of retrieved_docs.
type wireDoc struct {
	Text       string  `json:"text"`
	Disease    string  `json:"Disease"`
	Department string  `json:"Department"`
	Similarity float64 `json:"similarity"`
	Overlap    float64 `json:"overlap"`
	FinalScore float64 `json:"final_score"`
}

type wireResponse struct {
	RetrievedDocs       []wireDoc       `json:"retrieved_docs"`
	NormalizedSymptoms  []string        `json:"normalized_symptoms"`
	ShouldSkipQuestions bool            `json:"should_skip_questions"`
	Answer              json.RawMessage `json:"answer"`
}

func (h *HTTPRanker) Rank(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal rank request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rank request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrUnavailable{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrUnavailable{
			StatusCode: resp.StatusCode,
			Err:        errors.New(snippet(raw)),
		}
	}

	return h.decode(raw)
}

// decode turns a 2xx body into a Response. Bodies that are not JSON mean the
// service is broken; JSON that does not look like a scoring response is
// treated as an empty ranking.
func (h *HTTPRanker) decode(raw []byte) (*Response, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("non-JSON response: %w", err)}
	}

	if err := validateBody(doc); err != nil {
		h.logger.Warn("malformed scoring response", zap.Error(err))
		return &Response{}, nil
	}

	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		h.logger.Warn("malformed scoring response", zap.Error(err))
		return &Response{}, nil
	}

	out := &Response{
		SkipQuestions:      wire.ShouldSkipQuestions,
		NormalizedSymptoms: wire.NormalizedSymptoms,
		Candidates:         make([]Candidate, 0, len(wire.RetrievedDocs)),
	}
	for i, d := range wire.RetrievedDocs {
		if d.FinalScore < 0 || d.FinalScore > 1 {
			h.logger.Warn("candidate score out of range",
				zap.Int("index", i),
				zap.String("disease", d.Disease),
				zap.Float64("score", d.FinalScore))
			return &Response{}, nil
		}
		out.Candidates = append(out.Candidates, Candidate{
			Disease:    d.Disease,
			Department: d.Department,
			Score:      d.FinalScore,
			SourceText: d.Text,
			Similarity: d.Similarity,
			Overlap:    d.Overlap,
		})
	}

	if len(wire.Answer) > 0 && string(wire.Answer) != "null" {
		out.SuggestedFollowUps = explain.Parse(wire.Answer).SymptomsToAsk
	}

	return out, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
