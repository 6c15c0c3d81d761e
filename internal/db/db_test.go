package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestInsertAndLatestSnapshot(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	older := UsageSnapshot{
		CapturedAt:   time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		TimeRange:    "1h",
		TotalTokens:  1000,
		TotalCostUSD: 1.25,
		SessionCount: 2,
	}
	newer := UsageSnapshot{
		CapturedAt:   time.Date(2026, 8, 23, 11, 0, 0, 0, time.UTC),
		TimeRange:    "1h",
		TotalTokens:  2500,
		TotalCostUSD: 3.50,
		SessionCount: 4,
	}
	otherRange := UsageSnapshot{
		CapturedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		TimeRange:  "7d",
	}
	for _, s := range []UsageSnapshot{older, newer, otherRange} {
		if err := database.InsertSnapshot(ctx, s); err != nil {
			t.Fatalf("InsertSnapshot() error = %v", err)
		}
	}

	got, err := database.LatestSnapshot(ctx, "1h")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if got == nil {
		t.Fatal("LatestSnapshot() = nil, want record")
	}
	if got.TotalTokens != 2500 || got.TotalCostUSD != 3.50 || got.SessionCount != 4 {
		t.Errorf("LatestSnapshot() = %+v, want newest 1h snapshot", got)
	}
	if !got.CapturedAt.Equal(newer.CapturedAt) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, newer.CapturedAt)
	}
}

func TestLatestSnapshot_Empty(t *testing.T) {
	database := testDB(t)
	got, err := database.LatestSnapshot(context.Background(), "1h")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if got != nil {
		t.Errorf("LatestSnapshot() = %+v, want nil", got)
	}
}

func TestSnapshotsSinceAndPrune(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s := UsageSnapshot{
			CapturedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
			TimeRange:   "1d",
			TotalTokens: uint64(i),
		}
		if err := database.InsertSnapshot(ctx, s); err != nil {
			t.Fatalf("InsertSnapshot() error = %v", err)
		}
	}

	since, err := database.SnapshotsSince(ctx, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("SnapshotsSince() error = %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("SnapshotsSince() = %d rows, want 2", len(since))
	}
	if since[0].TotalTokens != 2 || since[1].TotalTokens != 3 {
		t.Errorf("SnapshotsSince() order = %+v", since)
	}

	pruned, err := database.PruneSnapshots(ctx, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("PruneSnapshots() error = %v", err)
	}
	if pruned != 2 {
		t.Errorf("PruneSnapshots() = %d, want 2", pruned)
	}

	remaining, err := database.SnapshotsSince(ctx, base)
	if err != nil {
		t.Fatalf("SnapshotsSince() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("remaining = %d rows, want 2", len(remaining))
	}
}
