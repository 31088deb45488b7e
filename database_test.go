package main

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndTopRuns(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	rows := []RunRow{
		{PlayerID: "a", Name: "Alice", PeakMass: 120, FoodEaten: 40, PlayersEaten: 2, Cause: "eaten", StartedAt: now.Add(-time.Minute), EndedAt: now},
		{PlayerID: "b", Name: "Bob", PeakMass: 300, FoodEaten: 90, PlayersEaten: 5, Cause: "disconnect", StartedAt: now.Add(-time.Hour), EndedAt: now},
		{PlayerID: "c", Name: "Cleo", PeakMass: 80, Cause: "shutdown", StartedAt: now, EndedAt: now},
	}
	if err := db.InsertRuns(rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	top, err := db.TopRuns(2)
	if err != nil {
		t.Fatalf("top runs: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].Name != "Bob" || top[1].Name != "Alice" {
		t.Errorf("wrong order: %v", top)
	}
	if top[0].Mass != 300 {
		t.Errorf("mass = %f", top[0].Mass)
	}
}

func TestInsertRunsEmptyBatch(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertRuns(nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}

func TestRunRecorderFlushesOnClose(t *testing.T) {
	db := openTestDB(t)
	rec := NewRunRecorder(db)

	rec.Record(RunRow{PlayerID: "a", Name: "Alice", PeakMass: 55,
		Cause: "eaten", StartedAt: time.Now(), EndedAt: time.Now()})
	rec.Close()

	top, err := db.TopRuns(10)
	if err != nil {
		t.Fatalf("top runs: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Alice" {
		t.Errorf("recorder did not flush: %v", top)
	}
}
