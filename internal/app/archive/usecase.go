// Package archive copies the in-memory event log into a durable store.
// The copier runs outside the world lock: it reads a batch under the
// transaction, releases it, then writes to the archive at its own pace.
package archive

import (
	"context"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

const defaultBatchSize = 200

type UseCase struct {
	TxManager ports.TxManager
	Events    ports.EventLog
	Archive   ports.EventArchive
	BatchSize int

	cursor int64
	primed bool
}

// Flush copies at most one batch of unarchived events and reports how
// many it moved. Callers loop until it returns 0.
func (u *UseCase) Flush(ctx context.Context) (int, error) {
	batch := u.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	if !u.primed {
		last, err := u.Archive.LastSeq(ctx)
		if err != nil {
			return 0, err
		}
		u.cursor = last
		u.primed = true
	}

	var events []tower.Event
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		events, err = u.Events.ListAfter(txCtx, u.cursor, batch)
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err := u.Archive.Append(ctx, events); err != nil {
		return 0, err
	}
	u.cursor = events[len(events)-1].Seq
	return len(events), nil
}
