package ranker

import (
	"context"
	"sync"
)

// MockResponse is a canned reply for MockRanker.
type MockResponse struct {
	Response *Response
	Err      error

	// Wait, when non-nil, blocks Rank until it is closed or ctx ends.
	Wait <-chan struct{}
}

// MockRanker returns canned responses in FIFO order and records requests.
type MockRanker struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

var _ Ranker = (*MockRanker)(nil)

// NewMockRanker creates a MockRanker with the given responses.
func NewMockRanker(responses ...MockResponse) *MockRanker {
	return &MockRanker{responses: responses}
}

// Rank returns the next canned response, or *ErrUnavailable when the queue
// is empty.
func (m *MockRanker) Rank(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if next.Wait != nil {
		select {
		case <-next.Wait:
		case <-ctx.Done():
			return nil, &ErrUnavailable{Err: ctx.Err()}
		}
	}

	if next.Err != nil {
		return nil, next.Err
	}
	if next.Response == nil {
		return &Response{}, nil
	}
	return next.Response, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockRanker) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Rank calls made.
func (m *MockRanker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Requests returns a copy of the recorded requests.
func (m *MockRanker) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.Calls))
	copy(out, m.Calls)
	return out
}
