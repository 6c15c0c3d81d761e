package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UsageSnapshot is a point-in-time record of dashboard totals, kept so the
// last-known numbers can be shown while the metrics server is unreachable.
type UsageSnapshot struct {
	ID           int64
	CapturedAt   time.Time
	TimeRange    string
	TotalTokens  uint64
	TotalCostUSD float64
	SessionCount uint32
}

// InsertSnapshot stores a snapshot of the current dashboard totals.
func (db *DB) InsertSnapshot(ctx context.Context, s UsageSnapshot) error {
	capturedAt := s.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO usage_snapshots (captured_at, time_range, total_tokens, total_cost_usd, session_count)
		VALUES (?, ?, ?, ?, ?)`,
		capturedAt.Format(time.RFC3339), s.TimeRange, s.TotalTokens, s.TotalCostUSD, s.SessionCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot for a time range, or nil
// when none has been recorded yet.
func (db *DB) LatestSnapshot(ctx context.Context, timeRange string) (*UsageSnapshot, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, captured_at, time_range, total_tokens, total_cost_usd, session_count
		FROM usage_snapshots
		WHERE time_range = ?
		ORDER BY captured_at DESC, id DESC
		LIMIT 1`, timeRange)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return s, nil
}

// SnapshotsSince returns snapshots captured at or after the cutoff, oldest
// first, for all time ranges.
func (db *DB) SnapshotsSince(ctx context.Context, cutoff time.Time) ([]UsageSnapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, captured_at, time_range, total_tokens, total_cost_usd, session_count
		FROM usage_snapshots
		WHERE captured_at >= ?
		ORDER BY captured_at ASC, id ASC`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []UsageSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return out, nil
}

// PruneSnapshots deletes snapshots older than the cutoff and returns the
// number removed.
func (db *DB) PruneSnapshots(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM usage_snapshots WHERE captured_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*UsageSnapshot, error) {
	var s UsageSnapshot
	var capturedAt string
	if err := row.Scan(&s.ID, &capturedAt, &s.TimeRange, &s.TotalTokens, &s.TotalCostUSD, &s.SessionCount); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, capturedAt)
	if err != nil {
		// Older rows may carry sqlite's default CURRENT_TIMESTAMP format.
		ts, err = time.Parse("2006-01-02 15:04:05", capturedAt)
		if err != nil {
			return nil, err
		}
	}
	s.CapturedAt = ts
	return &s, nil
}
