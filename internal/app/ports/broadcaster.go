package ports

import "towerverse/internal/domain/tower"

// EventBroadcaster pushes committed events to live observers. Best-effort:
// a slow observer never blocks a commit.
type EventBroadcaster interface {
	Broadcast(e tower.Event)
}

// NopBroadcaster drops everything. Used when no observer listener runs.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(tower.Event) {}
