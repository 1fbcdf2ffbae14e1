package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates calls grouped by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// InterviewEventData captures one finished interview.
type InterviewEventData struct {
	SessionID      string
	Outcome        string
	Department     string
	Symptoms       []string
	QuestionCount  int
	NegativeStreak int
	TopScore       float64
	Duration       time.Duration
	Explanation    string
}

// InterviewEvent is a stored interview outcome.
type InterviewEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	InterviewEventData
}

// OutcomeCount is the number of interviews that ended with Outcome.
type OutcomeCount struct {
	Outcome      string
	Count        int
	AvgQuestions float64
}

// LLMEventRepo records LLM calls.
type LLMEventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// InterviewEventRepo records finished interviews.
type InterviewEventRepo interface {
	AppendInterview(ctx context.Context, data InterviewEventData) error
}

// EventRepo provides append and query access to all stored events.
type EventRepo interface {
	LLMEventRepo
	InterviewEventRepo

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the event with id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryInterviews returns interview events, newest first.
	QueryInterviews(ctx context.Context, opts QueryOpts) ([]InterviewEvent, error)

	InterviewOutcomeCounts(ctx context.Context) ([]OutcomeCount, error)
}
