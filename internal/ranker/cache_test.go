package ranker

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleResponse() *Response {
	return &Response{
		Candidates: []Candidate{
			{Disease: "Migraine", Department: "Neurology", Score: 0.74},
		},
		SuggestedFollowUps: []string{"nausea"},
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheKey_NormalizesText(t *testing.T) {
	a := CacheKey(Request{SymptomsText: "  Headache,   NAUSEA "})
	b := CacheKey(Request{SymptomsText: "headache, nausea"})
	c := CacheKey(Request{SymptomsText: "headache, nausea", SkipGenerativeStep: true})

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
}

func TestCachingRanker_HitSkipsInner(t *testing.T) {
	mr, rdb := newMiniredis(t)
	inner := NewMockRanker(MockResponse{Response: sampleResponse()})
	r := WithCache(inner, rdb, time.Minute, zaptest.NewLogger(t))

	req := Request{SymptomsText: "Headache"}
	first, err := r.Rank(t.Context(), req)
	require.NoError(t, err)
	assert.True(t, mr.Exists(CacheKey(req)))

	second, err := r.Rank(t.Context(), Request{SymptomsText: "headache "})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.CallCount())
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.SuggestedFollowUps, second.SuggestedFollowUps)
}

func TestCachingRanker_TTLExpiry(t *testing.T) {
	mr, rdb := newMiniredis(t)
	inner := NewMockRanker(
		MockResponse{Response: sampleResponse()},
		MockResponse{Response: sampleResponse()},
	)
	r := WithCache(inner, rdb, time.Minute, nil)

	req := Request{SymptomsText: "headache"}
	_, err := r.Rank(t.Context(), req)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = r.Rank(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.CallCount())
}

func TestCachingRanker_EmptyRankingNotCached(t *testing.T) {
	mr, rdb := newMiniredis(t)
	inner := NewMockRanker(MockResponse{Response: &Response{}})
	r := WithCache(inner, rdb, time.Minute, nil)

	req := Request{SymptomsText: "gibberish"}
	_, err := r.Rank(t.Context(), req)
	require.NoError(t, err)
	assert.False(t, mr.Exists(CacheKey(req)))
}

func TestCachingRanker_InnerErrorPropagates(t *testing.T) {
	_, rdb := newMiniredis(t)
	inner := NewMockRanker(MockResponse{Err: &ErrUnavailable{StatusCode: 503}})
	r := WithCache(inner, rdb, time.Minute, nil)

	_, err := r.Rank(t.Context(), Request{SymptomsText: "headache"})
	var unavailable *ErrUnavailable
	assert.True(t, errors.As(err, &unavailable))
}

func TestCachingRanker_RedisDownFallsThrough(t *testing.T) {
	mr, rdb := newMiniredis(t)
	mr.SetError("LOADING redis is loading the dataset")

	inner := NewMockRanker(MockResponse{Response: sampleResponse()})
	r := WithCache(inner, rdb, time.Minute, zaptest.NewLogger(t))

	resp, err := r.Rank(t.Context(), Request{SymptomsText: "headache"})
	require.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, 1, inner.CallCount())
}

func TestCachingRanker_ReadErrorWithMock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	req := Request{SymptomsText: "headache"}
	mock.ExpectGet(CacheKey(req)).SetErr(errors.New("connection reset"))

	inner := NewMockRanker(MockResponse{Response: sampleResponse()})
	r := WithCache(inner, db, time.Minute, nil)

	resp, err := r.Rank(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, "Migraine", resp.Candidates[0].Disease)
}

func TestCachingRanker_CorruptEntry(t *testing.T) {
	mr, rdb := newMiniredis(t)
	req := Request{SymptomsText: "headache"}
	require.NoError(t, mr.Set(CacheKey(req), "{not json"))

	inner := NewMockRanker(MockResponse{Response: sampleResponse()})
	r := WithCache(inner, rdb, time.Minute, nil)

	resp, err := r.Rank(t.Context(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, 1, inner.CallCount())
}
