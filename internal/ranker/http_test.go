package ranker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func serve(t *testing.T, status int, body string, seen *Request) *HTTPRanker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ask", r.URL.Path)
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewHTTPRanker(srv.URL, time.Second, zaptest.NewLogger(t))
}

const wellFormed = `{
	"retrieved_docs": [
		{"text": "Migraine: throbbing headache, nausea", "Disease": "Migraine", "Department": "Neurology", "similarity": 0.81, "overlap": 0.5, "final_score": 0.74},
		{"text": "Sinusitis: facial pain", "Disease": "Sinusitis", "Department": "ENT", "similarity": 0.6, "overlap": 0.2, "final_score": 0.52}
	],
	"normalized_symptoms": ["headache", "nausea"],
	"should_skip_questions": false,
	"answer": {"symptoms_to_ask": ["sensitivity to light", "blurred vision"], "explanation": "..."}
}`

func TestHTTPRanker_WellFormed(t *testing.T) {
	var seen Request
	r := serve(t, http.StatusOK, wellFormed, &seen)

	resp, err := r.Rank(t.Context(), Request{SymptomsText: "headache, nausea", SkipGenerativeStep: true})
	require.NoError(t, err)

	assert.Equal(t, "headache, nausea", seen.SymptomsText)
	assert.True(t, seen.SkipGenerativeStep)

	require.Len(t, resp.Candidates, 2)
	top, ok := Top(resp.Candidates)
	require.True(t, ok)
	assert.Equal(t, "Migraine", top.Disease)
	assert.Equal(t, "Neurology", top.Department)
	assert.InDelta(t, 0.74, top.Score, 1e-9)
	assert.Equal(t, "Migraine: throbbing headache, nausea", top.SourceText)
	assert.Equal(t, []float64{0.74, 0.52}, Scores(resp.Candidates))
	assert.Equal(t, []string{"sensitivity to light", "blurred vision"}, resp.SuggestedFollowUps)
	assert.Equal(t, []string{"headache", "nausea"}, resp.NormalizedSymptoms)
	assert.False(t, resp.SkipQuestions)
}

func TestHTTPRanker_AnswerAsString(t *testing.T) {
	body := `{"retrieved_docs":[{"Disease":"Flu","Department":"Internal Medicine","final_score":0.8}],"should_skip_questions":true,"answer":"{\"symptoms_to_ask\":[\"chills\"]}"}`
	r := serve(t, http.StatusOK, body, nil)

	resp, err := r.Rank(t.Context(), Request{SymptomsText: "fever"})
	require.NoError(t, err)
	assert.True(t, resp.SkipQuestions)
	assert.Equal(t, []string{"chills"}, resp.SuggestedFollowUps)
}

func TestHTTPRanker_NoAnswer(t *testing.T) {
	body := `{"retrieved_docs":[{"Disease":"Flu","Department":"Internal Medicine","final_score":0.8}],"answer":null}`
	r := serve(t, http.StatusOK, body, nil)

	resp, err := r.Rank(t.Context(), Request{SymptomsText: "fever", SkipGenerativeStep: true})
	require.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
	assert.Empty(t, resp.SuggestedFollowUps)
}

func TestHTTPRanker_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing retrieved_docs", `{"answer": "hello"}`},
		{"docs wrong type", `{"retrieved_docs": "none"}`},
		{"doc missing score", `{"retrieved_docs": [{"Disease": "Flu", "Department": "IM"}]}`},
		{"score above one", `{"retrieved_docs": [{"Disease": "Flu", "Department": "IM", "final_score": 1.4}]}`},
		{"negative score", `{"retrieved_docs": [{"Disease": "Flu", "Department": "IM", "final_score": -0.1}]}`},
		{"array body", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := serve(t, http.StatusOK, tt.body, nil)
			resp, err := r.Rank(t.Context(), Request{SymptomsText: "fever"})
			require.NoError(t, err)
			assert.Empty(t, resp.Candidates)
		})
	}
}

func TestHTTPRanker_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, http.StatusInternalServerError},
		{"bad request", http.StatusBadRequest, `{"error":"No symptoms provided"}`, http.StatusBadRequest},
		{"html body", http.StatusOK, `<html>proxy error</html>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := serve(t, tt.status, tt.body, nil)
			_, err := r.Rank(t.Context(), Request{SymptomsText: "fever"})
			require.Error(t, err)

			var unavailable *ErrUnavailable
			require.True(t, errors.As(err, &unavailable))
			assert.Equal(t, tt.wantStatus, unavailable.StatusCode)
		})
	}
}

func TestHTTPRanker_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	r := NewHTTPRanker(url, time.Second, nil)
	_, err := r.Rank(t.Context(), Request{SymptomsText: "fever"})

	var unavailable *ErrUnavailable
	require.True(t, errors.As(err, &unavailable))
	assert.Zero(t, unavailable.StatusCode)
}
