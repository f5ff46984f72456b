package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
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
	SessionID    string
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

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ModelUsage aggregates LLM request events for one provider/model pair.
type ModelUsage struct {
	Provider       string
	Model          string
	Requests       int
	Failures       int
	InputTokens    int64
	OutputTokens   int64
	TotalLatencyMs int64
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID  string
	Action     string // "start"
	Difficulty string
}

// AnswerEventData captures one scored answer.
type AnswerEventData struct {
	SessionID        string
	QuestionID       string
	QuestionText     string
	SelectedOptionID string
	Correct          bool
	Known            bool
	WindowComplete   bool
	Direction        string
	Difficulty       string // rung after the answer was applied
}

// SessionSummary aggregates the answers recorded for one session.
type SessionSummary struct {
	SessionID  string
	Answered   int
	Correct    int
	LastAnswer time.Time
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswer records a scored answer.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the LLM event with the given sequence number,
	// or nil if none exists.
	GetLLMEvent(ctx context.Context, sequence int64) (*LLMEvent, error)

	// LLMUsageByModel aggregates LLM request events per provider and model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// SessionSummaries returns per-session answer totals, most recently
	// active first. A limit of 0 returns every session.
	SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error)
}

// eventRepo implements EventRepo on the ent SQL driver and the global
// sequence counter.
type eventRepo struct {
	drv dialect.ExecQuerier
	seq *sequenceCounter
}
