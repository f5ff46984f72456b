package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if err := r.appendEvent(ctx, sessionEventsTable,
		[]string{"session_id", "action", "difficulty"},
		data.SessionID, data.Action, data.Difficulty,
	); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	if err := r.appendEvent(ctx, answerEventsTable,
		[]string{
			"session_id", "question_id", "question_text", "selected_option_id",
			"correct", "known", "window_complete", "direction", "difficulty",
		},
		data.SessionID, data.QuestionID, data.QuestionText, data.SelectedOptionID,
		data.Correct, data.Known, data.WindowComplete, data.Direction, data.Difficulty,
	); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error) {
	sel := sql.Dialect(dialect.SQLite).
		Select(
			"session_id",
			sql.As(sql.Count("*"), "answered"),
			sql.As(sql.Sum("correct"), "correct_count"),
			sql.As(sql.Max("timestamp"), "last_ts"),
		).
		From(sql.Table(answerEventsTable)).
		GroupBy("session_id").
		OrderBy(sql.Desc("last_ts"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s  SessionSummary
			ts int64
		)
		if err := rows.Scan(&s.SessionID, &s.Answered, &s.Correct, &ts); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		s.LastAnswer = time.UnixMilli(ts)
		out = append(out, s)
	}
	return out, rows.Err()
}
