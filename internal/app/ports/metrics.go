package ports

type ActionMetrics interface {
	RecordSuccess(action string)
	RecordRejected(action string)
	RecordFailure(action string)
	RecordTick(durationMs int64)
}
