package gormrepo

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"towerverse/internal/domain/tower"
)

type EventArchive struct {
	db *gorm.DB
}

func NewEventArchive(db *gorm.DB) EventArchive {
	return EventArchive{db: db}
}

func (r EventArchive) LastSeq(ctx context.Context) (int64, error) {
	var seq *int64
	err := r.db.WithContext(ctx).
		Model(&WorldEvent{}).
		Select("MAX(seq)").
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	if seq == nil {
		return 0, nil
	}
	return *seq, nil
}

func (r EventArchive) Append(ctx context.Context, events []tower.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]WorldEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, WorldEvent{
			Seq:        e.Seq,
			Tick:       e.Tick,
			Type:       string(e.Type),
			ResidentID: e.ResidentID,
			LocationID: e.LocationID,
			Payload:    b,
			OccurredAt: e.At,
		})
	}
	// Resuming after a crash may replay the tail of the last batch.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
