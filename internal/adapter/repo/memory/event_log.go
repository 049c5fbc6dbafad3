package memory

import (
	"context"

	"towerverse/internal/domain/tower"
)

type EventLog struct{ store *Store }

func NewEventLog(store *Store) EventLog { return EventLog{store: store} }

// Append assigns the next sequence number and keeps the log bounded: when
// the cap is hit the oldest half is dropped. Sequence numbers survive the
// trim, so replay cursors past the horizon simply resume from what's left.
func (l EventLog) Append(_ context.Context, e tower.Event) (tower.Event, error) {
	l.store.eventSeq++
	e.Seq = l.store.eventSeq
	l.store.events = append(l.store.events, cloneEvent(e))
	if len(l.store.events) > tower.EventLogCap {
		keep := l.store.events[len(l.store.events)/2:]
		l.store.events = append([]tower.Event(nil), keep...)
	}
	return e, nil
}

func (l EventLog) ListAfter(_ context.Context, afterSeq int64, limit int) ([]tower.Event, error) {
	var out []tower.Event
	for _, e := range l.store.events {
		if e.Seq <= afterSeq {
			continue
		}
		out = append(out, cloneEvent(e))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (l EventLog) ListRecent(_ context.Context, limit int) ([]tower.Event, error) {
	events := l.store.events
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]tower.Event, 0, len(events))
	for _, e := range events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (l EventLog) ListByLocation(_ context.Context, locationID string, limit int) ([]tower.Event, error) {
	var out []tower.Event
	for i := len(l.store.events) - 1; i >= 0; i-- {
		e := l.store.events[i]
		if e.LocationID != locationID {
			continue
		}
		out = append(out, cloneEvent(e))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	// Oldest first, like the rest of the log surfaces.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
