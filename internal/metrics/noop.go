package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEventListCacheHit is a no-op.
func (n *NoopRecorder) IncEventListCacheHit() {}

// IncEventListCacheMiss is a no-op.
func (n *NoopRecorder) IncEventListCacheMiss() {}

// IncEventCreated is a no-op.
func (n *NoopRecorder) IncEventCreated() {}

// IncEventUpdated is a no-op.
func (n *NoopRecorder) IncEventUpdated() {}

// IncEventDeleted is a no-op.
func (n *NoopRecorder) IncEventDeleted() {}

// IncReorderApplied is a no-op.
func (n *NoopRecorder) IncReorderApplied() {}

// IncInteractionRecorded is a no-op.
func (n *NoopRecorder) IncInteractionRecorded(status string) {}

// IncAuthAttempt is a no-op.
func (n *NoopRecorder) IncAuthAttempt(status string) {}
