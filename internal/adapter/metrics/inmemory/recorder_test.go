package inmemory

import (
	"testing"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess("move")
	r.RecordSuccess("gossip_spread")
	r.RecordRejected("buy")
	r.RecordFailure("duel")

	s := r.Snapshot()
	if s.ActionTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.ActionTotal)
	}
	if s.ActionSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.ActionSuccess)
	}
	if s.ActionRejected != 1 {
		t.Fatalf("expected rejected 1, got %d", s.ActionRejected)
	}
	if s.ActionFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.ActionFailure)
	}
	if s.ByAction["move"].Success != 1 {
		t.Fatalf("expected move success count 1")
	}
	if s.ByAction["buy"].Rejected != 1 {
		t.Fatalf("expected buy rejected count 1")
	}
}

func TestRecorderTickStats(t *testing.T) {
	r := NewRecorder()
	r.RecordTick(10)
	r.RecordTick(30)
	r.RecordTick(20)

	s := r.Snapshot()
	if s.TickCount != 3 {
		t.Fatalf("expected 3 ticks, got %d", s.TickCount)
	}
	if s.TickLastMs != 20 {
		t.Fatalf("expected last 20ms, got %d", s.TickLastMs)
	}
	if s.TickMaxMs != 30 {
		t.Fatalf("expected max 30ms, got %d", s.TickMaxMs)
	}
	if s.TickAvgMs != 20 {
		t.Fatalf("expected avg 20ms, got %d", s.TickAvgMs)
	}
}
