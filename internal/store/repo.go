package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when non-empty
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Topic        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates LLM requests grouped by a key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs float64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns events newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMRequest returns the event with the given sequence, or nil.
	GetLLMRequest(ctx context.Context, seq int64) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates all events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates all events by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// PruneLLMRequests deletes events older than before and returns how
	// many were removed.
	PruneLLMRequests(ctx context.Context, before time.Time) (int, error)
}
