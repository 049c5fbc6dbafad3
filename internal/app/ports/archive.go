package ports

import (
	"context"

	"towerverse/internal/domain/tower"
)

// EventArchive is a durable, append-only mirror of the in-memory event
// log. The world never reads from it at runtime; it exists so history
// survives a process restart and can be analyzed offline.
type EventArchive interface {
	// LastSeq reports the highest archived sequence number, 0 if empty.
	LastSeq(ctx context.Context) (int64, error)
	// Append stores the batch. Re-archiving an already stored sequence
	// number must be a no-op so the copier can resume after a crash.
	Append(ctx context.Context, events []tower.Event) error
}
