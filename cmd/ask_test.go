package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/ranker"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers([]string{"yes", " N ", "y", "false", ""})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, got)

	_, err = parseAnswers([]string{"maybe"})
	assert.ErrorContains(t, err, "maybe")
}

func candidates(scores ...float64) []ranker.Candidate {
	var out []ranker.Candidate
	for _, s := range scores {
		out = append(out, ranker.Candidate{Disease: "Migraine", Department: "Neurology", Score: s})
	}
	return out
}

func TestRunScript_StopsAtTerminalDecision(t *testing.T) {
	mock := ranker.NewMockRanker(
		ranker.MockResponse{Response: &ranker.Response{
			Candidates:         candidates(0.8, 0.75),
			SuggestedFollowUps: []string{"nausea", "fever"},
		}},
		ranker.MockResponse{Response: &ranker.Response{Candidates: candidates(0.9, 0.2)}},
	)
	c := interview.New(mock, nil, interview.DefaultConfig())

	tr, err := runScript(context.Background(), c, "headache", []bool{false, true, true, true})
	require.NoError(t, err)

	require.Len(t, tr.Steps, 3, "answers after the final decision are not sent")
	assert.Nil(t, tr.Steps[0].Answer)
	assert.Equal(t, interview.KindAskQuestion, tr.Steps[0].Decision.Kind)
	assert.Equal(t, "fever", tr.Steps[1].Decision.Question)
	assert.Equal(t, interview.KindRecommend, tr.Steps[2].Decision.Kind)
	assert.True(t, tr.Finished)
	assert.Equal(t, []string{"headache", "fever"}, tr.Symptoms)

	var buf bytes.Buffer
	require.NoError(t, writeTranscript(&buf, tr))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	steps := decoded["steps"].([]any)
	last := steps[2].(map[string]any)["decision"].(map[string]any)
	assert.Equal(t, "recommend", last["kind"])
	assert.Equal(t, "Neurology", last["result"].(map[string]any)["department"])
}

func TestRunScript_AnswersRunOut(t *testing.T) {
	mock := ranker.NewMockRanker(ranker.MockResponse{Response: &ranker.Response{
		Candidates:         candidates(0.8, 0.75),
		SuggestedFollowUps: []string{"nausea", "fever"},
	}})
	c := interview.New(mock, nil, interview.DefaultConfig())

	tr, err := runScript(context.Background(), c, "headache", nil)
	require.NoError(t, err)
	assert.False(t, tr.Finished)
	require.Len(t, tr.Steps, 1)
	assert.Equal(t, "nausea", tr.Steps[0].Decision.Question)
}

func TestRunScript_ServiceDown(t *testing.T) {
	c := interview.New(ranker.NewMockRanker(), nil, interview.DefaultConfig())

	_, err := runScript(context.Background(), c, "headache", nil)
	assert.ErrorIs(t, err, interview.ErrServiceUnavailable)
}
