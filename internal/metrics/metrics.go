// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Public listing metrics
	IncEventListCacheHit()
	IncEventListCacheMiss()

	// Event management metrics
	IncEventCreated()
	IncEventUpdated()
	IncEventDeleted()
	IncReorderApplied()

	// Analytics metrics
	IncInteractionRecorded(status string) // status: "unique", "repeat" or "dropped"

	// Credential check metrics
	IncAuthAttempt(status string) // status: "ok" or "denied"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
