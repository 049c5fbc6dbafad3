package gormrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"towerverse/internal/domain/tower"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("WORLD_DB_DSN")
	if dsn == "" {
		t.Skip("WORLD_DB_DSN is required for integration test")
	}
	return dsn
}

func TestEventArchive_AppendIsIdempotent(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_ = db.Exec("DELETE FROM world_events WHERE seq IN (?, ?)", int64(900001), int64(900002)).Error

	archive := NewEventArchive(db)
	batch := []tower.Event{
		{
			Seq:        900001,
			Tick:       5,
			Type:       tower.EventGossipStart,
			ResidentID: "it-res-1",
			LocationID: "rooftop",
			Payload:    map[string]any{"chain_id": "chain-1"},
			At:         time.Now().UTC(),
		},
		{
			Seq:        900002,
			Tick:       5,
			Type:       tower.EventGossipSpread,
			ResidentID: "it-res-2",
			LocationID: "rooftop",
			At:         time.Now().UTC(),
		},
	}
	if err := archive.Append(ctx, batch); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Replaying the batch must not error or duplicate.
	if err := archive.Append(ctx, batch); err != nil {
		t.Fatalf("replay append: %v", err)
	}

	var count int64
	if err := db.Model(&WorldEvent{}).Where("seq IN (?, ?)", int64(900001), int64(900002)).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 archived rows, got %d", count)
	}

	seq, err := archive.LastSeq(ctx)
	if err != nil {
		t.Fatalf("last seq: %v", err)
	}
	if seq < 900002 {
		t.Fatalf("expected last seq >= 900002, got %d", seq)
	}
}
