package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	if err := r.appendEvent(ctx, llmRequestEventsTable, llmEventColumns[2:],
		data.SessionID, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
		data.ErrorMessage, data.RequestBody, data.ResponseBody,
	); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

var llmEventColumns = []string{
	"sequence", "timestamp", "session_id", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := sql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(sql.Table(llmRequestEventsTable)).
		OrderBy(sql.Desc("sequence"))
	applyQueryOpts(sel, opts)
	return r.scanLLMEvents(ctx, sel)
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, sequence int64) (*LLMEvent, error) {
	sel := sql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(sql.Table(llmRequestEventsTable)).
		Where(sql.EQ("sequence", sequence))
	events, err := r.scanLLMEvents(ctx, sel)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return &events[0], nil
}

func (r *eventRepo) scanLLMEvents(ctx context.Context, sel *sql.Selector) ([]LLMEvent, error) {
	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		var (
			e  LLMEvent
			ts int64
		)
		if err := rows.Scan(
			&e.Sequence, &ts, &e.SessionID, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
			&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select(
			"provider", "model",
			sql.As(sql.Count("*"), "requests"),
			sql.As("SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)", "failures"),
			sql.As(sql.Sum("input_tokens"), "input_tokens"),
			sql.As(sql.Sum("output_tokens"), "output_tokens"),
			sql.As(sql.Sum("latency_ms"), "latency_ms"),
		).
		From(sql.Table(llmRequestEventsTable)).
		GroupBy("provider", "model").
		OrderBy(sql.Desc("requests"), "model").
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(
			&u.Provider, &u.Model, &u.Requests, &u.Failures,
			&u.InputTokens, &u.OutputTokens, &u.TotalLatencyMs,
		); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func applyQueryOpts(sel *sql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(sql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(sql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(sql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(sql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
