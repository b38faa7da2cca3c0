package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder and the sequence
// counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var llmRequestSelectColumns = []string{
	"sequence", "timestamp", "provider", "model", "purpose", "topic",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(llmRequestsTableName).
		Columns(llmRequestSelectColumns...).
		Values(
			seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.Topic,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder().Select(llmRequestSelectColumns...).
		From(entsql.Table(llmRequestsTableName)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		ev, err := scanLLMRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, seq int64) (*LLMRequestEvent, error) {
	query, args := builder().Select(llmRequestSelectColumns...).
		From(entsql.Table(llmRequestsTableName)).
		Where(entsql.EQ("sequence", seq)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get LLM request: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanLLMRequest(rows)
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "model")
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]LLMUsage, error) {
	query, args := builder().Select(
		column,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("success"), "successes"),
		entsql.As(entsql.Sum("input_tokens"), "input"),
		entsql.As(entsql.Sum("output_tokens"), "output"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(llmRequestsTableName)).
		GroupBy(column).
		OrderBy(entsql.Desc("calls"), column).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM requests by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u         LLMUsage
			successes int
			avg       sql.NullFloat64
		)
		if err := rows.Scan(&u.Key, &u.Calls, &successes, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.Failures = u.Calls - successes
		u.AvgLatencyMs = avg.Float64
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) PruneLLMRequests(ctx context.Context, before time.Time) (int, error) {
	query, args := builder().Delete(llmRequestsTableName).
		Where(entsql.LT("timestamp", before.UTC())).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune LLM requests: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune LLM requests: %w", err)
	}
	return int(n), nil
}

func scanLLMRequest(rows *sql.Rows) (*LLMRequestEvent, error) {
	var (
		ev                  LLMRequestEvent
		errMsg, reqB, respB sql.NullString
	)
	err := rows.Scan(
		&ev.Sequence, &ev.Timestamp, &ev.Provider, &ev.Model, &ev.Purpose, &ev.Topic,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
		&errMsg, &reqB, &respB,
	)
	if err != nil {
		return nil, fmt.Errorf("scan LLM request: %w", err)
	}
	ev.ErrorMessage = errMsg.String
	ev.RequestBody = reqB.String
	ev.ResponseBody = respB.String
	return &ev, nil
}
