package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the sequence shared by every event table, so
// an answer can be ordered against the LLM call that produced its question.
// The increment happens in SQLite with RETURNING; the mutex keeps callers
// in this process from interleaving between read and insert.
type sequenceCounter struct {
	mu  sync.Mutex
	drv dialect.ExecQuerier
}

func (sc *sequenceCounter) next(ctx context.Context) (int64, error) {
	rows := &sql.Rows{}
	if err := sc.drv.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, rows,
	); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: global_sequence is not seeded")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return seq, rows.Err()
}

// appendEvent inserts one row into table, prefixing the shared event
// header (sequence, timestamp) to cols and vals.
func (r *eventRepo) appendEvent(ctx context.Context, table string, cols []string, vals ...any) error {
	r.seq.mu.Lock()
	defer r.seq.mu.Unlock()

	seq, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	query, args := sql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seq, time.Now().UnixMilli()}, vals...)...).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
