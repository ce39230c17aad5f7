package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// syncEventRepo implements SyncEventRepo over the sync_events table.
type syncEventRepo struct {
	db *sql.DB
}

func (r *syncEventRepo) Append(ctx context.Context, data SyncEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_events
		 (timestamp, language, backend, operation, records, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UnixMilli(),
		data.Language,
		data.Backend,
		data.Operation,
		data.Records,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save sync event: %w", err)
	}
	return nil
}

func (r *syncEventRepo) Query(ctx context.Context, opts QueryOpts) ([]SyncEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Language != "" {
		where = append(where, "language = ?")
		args = append(args, opts.Language)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := `SELECT id, timestamp, language, backend, operation, records, latency_ms, success, error_message
	      FROM sync_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY timestamp DESC, id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync events: %w", err)
	}
	defer rows.Close()

	var events []SyncEvent
	for rows.Next() {
		var (
			e  SyncEvent
			ts int64
		)
		err := rows.Scan(&e.ID, &ts, &e.Language, &e.Backend, &e.Operation,
			&e.Records, &e.LatencyMs, &e.Success, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan sync event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync events: %w", err)
	}
	return events, nil
}
