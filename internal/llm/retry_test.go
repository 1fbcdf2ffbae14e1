package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okContent = json.RawMessage(`{"departments":["Neurology"]}`)

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502 bad gateway")}}
}

func invalid() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Err: errors.New("missing departments")}}
}

// newTestRetry records waits instead of sleeping.
func newTestRetry(p Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	r := newRetryProvider(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     250 * time.Millisecond,
		Multiplier:  2,
	}, nil)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		attempts  int
		wantCalls int
		wantErr   func(error) bool
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: okContent}},
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "outage then success",
			responses: []MockResponse{unavailable(), {Content: okContent}},
			attempts:  3,
			wantCalls: 2,
		},
		{
			name:      "attempts exhausted",
			responses: []MockResponse{unavailable(), unavailable(), unavailable(), {Content: okContent}},
			attempts:  3,
			wantCalls: 3,
			wantErr: func(err error) bool {
				var e *ErrProviderUnavailable
				return errors.As(err, &e)
			},
		},
		{
			name:      "truncation is not retried",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: okContent}},
			attempts:  3,
			wantCalls: 1,
			wantErr: func(err error) bool {
				var e *ErrMaxTokensExceeded
				return errors.As(err, &e)
			},
		},
		{
			name:      "invalid output retried once",
			responses: []MockResponse{invalid(), invalid(), {Content: okContent}},
			attempts:  5,
			wantCalls: 2,
			wantErr: func(err error) bool {
				var e *ErrInvalidResponse
				return errors.As(err, &e)
			},
		},
		{
			name:      "cancellation is not retried",
			responses: []MockResponse{{Err: &ErrProviderUnavailable{Err: context.Canceled}}, {Content: okContent}},
			attempts:  3,
			wantCalls: 1,
			wantErr:   func(err error) bool { return errors.Is(err, context.Canceled) },
		},
		{
			name:      "zero attempts still calls once",
			responses: []MockResponse{unavailable(), {Content: okContent}},
			attempts:  0,
			wantCalls: 1,
			wantErr: func(err error) bool {
				var e *ErrProviderUnavailable
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			r, _ := newTestRetry(mock, tt.attempts)

			resp, err := r.Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.JSONEq(t, string(okContent), string(resp.Content))
				return
			}
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error %T: %v", err, err)
		})
	}
}

func TestRetry_BackoffGrowsAndCaps(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), unavailable(), MockResponse{Content: okContent})
	r, waits := newTestRetry(mock, 4)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)

	bases := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond}
	require.Len(t, *waits, len(bases))
	for i, base := range bases {
		got := (*waits)[i]
		assert.GreaterOrEqual(t, got, base*8/10, "wait %d", i)
		assert.LessOrEqual(t, got, base*12/10, "wait %d", i)
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second, Err: errors.New("429")}},
		MockResponse{Content: okContent},
	)
	r, waits := newTestRetry(mock, 3)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetry_GivesUpWhenWaitOutlivesDeadline(t *testing.T) {
	mock := NewMockProvider(unavailable(), MockResponse{Content: okContent})
	r, waits := newTestRetry(mock, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Generate(ctx, Request{})
	var e *ErrProviderUnavailable
	require.ErrorAs(t, err, &e)
	assert.Empty(t, *waits)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_CancelledDuringWait(t *testing.T) {
	mock := NewMockProvider(unavailable(), MockResponse{Content: okContent})
	r, _ := newTestRetry(mock, 3)

	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), 0))
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
