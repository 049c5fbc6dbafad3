package inmemory

import (
	"sync"
)

type ActionCounts struct {
	Success  uint64 `json:"success"`
	Rejected uint64 `json:"rejected"`
	Failure  uint64 `json:"failure"`
}

type Snapshot struct {
	ActionTotal    uint64                  `json:"action_total"`
	ActionSuccess  uint64                  `json:"action_success"`
	ActionRejected uint64                  `json:"action_rejected"`
	ActionFailure  uint64                  `json:"action_failure"`
	ByAction       map[string]ActionCounts `json:"by_action"`
	TickCount      uint64                  `json:"tick_count"`
	TickLastMs     int64                   `json:"tick_last_ms"`
	TickMaxMs      int64                   `json:"tick_max_ms"`
	TickAvgMs      int64                   `json:"tick_avg_ms"`
}

type Recorder struct {
	mu          sync.Mutex
	success     uint64
	rejected    uint64
	failure     uint64
	byAction    map[string]ActionCounts
	tickCount   uint64
	tickTotalMs int64
	tickLastMs  int64
	tickMaxMs   int64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]ActionCounts{},
	}
}

func (r *Recorder) RecordSuccess(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	c := r.byAction[action]
	c.Success++
	r.byAction[action] = c
}

func (r *Recorder) RecordRejected(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	c := r.byAction[action]
	c.Rejected++
	r.byAction[action] = c
}

func (r *Recorder) RecordFailure(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	c := r.byAction[action]
	c.Failure++
	r.byAction[action] = c
}

func (r *Recorder) RecordTick(durationMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickCount++
	r.tickTotalMs += durationMs
	r.tickLastMs = durationMs
	if durationMs > r.tickMaxMs {
		r.tickMaxMs = durationMs
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionSuccess:  r.success,
		ActionRejected: r.rejected,
		ActionFailure:  r.failure,
		ActionTotal:    r.success + r.rejected + r.failure,
		ByAction:       make(map[string]ActionCounts, len(r.byAction)),
		TickCount:      r.tickCount,
		TickLastMs:     r.tickLastMs,
		TickMaxMs:      r.tickMaxMs,
	}
	if r.tickCount > 0 {
		out.TickAvgMs = r.tickTotalMs / int64(r.tickCount)
	}
	for k, v := range r.byAction {
		out.ByAction[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
