package gormrepo

import "time"

// WorldEvent mirrors one event log entry. Seq comes from the in-memory
// log, so it is the primary key rather than an autoincrement column.
type WorldEvent struct {
	Seq        int64  `gorm:"primaryKey"`
	Tick       int64  `gorm:"index"`
	Type       string `gorm:"index"`
	ResidentID string
	LocationID string
	Payload    []byte
	OccurredAt time.Time
}

func (WorldEvent) TableName() string { return "world_events" }
