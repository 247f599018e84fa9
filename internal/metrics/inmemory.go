package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EventListCacheHits   uint64
	EventListCacheMisses uint64
	EventsCreated        uint64
	EventsUpdated        uint64
	EventsDeleted        uint64
	ReordersApplied      uint64
	InteractionsUnique   uint64
	InteractionsRepeat   uint64
	InteractionsDropped  uint64
	AuthAttemptsOK       uint64
	AuthAttemptsDenied   uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	eventListCacheHits   uint64
	eventListCacheMisses uint64
	eventsCreated        uint64
	eventsUpdated        uint64
	eventsDeleted        uint64
	reordersApplied      uint64
	interactionsUnique   uint64
	interactionsRepeat   uint64
	interactionsDropped  uint64
	authAttemptsOK       uint64
	authAttemptsDenied   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EventListCacheHits:   atomic.LoadUint64(&m.eventListCacheHits),
		EventListCacheMisses: atomic.LoadUint64(&m.eventListCacheMisses),
		EventsCreated:        atomic.LoadUint64(&m.eventsCreated),
		EventsUpdated:        atomic.LoadUint64(&m.eventsUpdated),
		EventsDeleted:        atomic.LoadUint64(&m.eventsDeleted),
		ReordersApplied:      atomic.LoadUint64(&m.reordersApplied),
		InteractionsUnique:   atomic.LoadUint64(&m.interactionsUnique),
		InteractionsRepeat:   atomic.LoadUint64(&m.interactionsRepeat),
		InteractionsDropped:  atomic.LoadUint64(&m.interactionsDropped),
		AuthAttemptsOK:       atomic.LoadUint64(&m.authAttemptsOK),
		AuthAttemptsDenied:   atomic.LoadUint64(&m.authAttemptsDenied),
	}
}

// IncEventListCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncEventListCacheHit() {
	atomic.AddUint64(&m.eventListCacheHits, 1)
}

// IncEventListCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncEventListCacheMiss() {
	atomic.AddUint64(&m.eventListCacheMisses, 1)
}

// IncEventCreated increments the event created counter.
func (m *InMemoryRecorder) IncEventCreated() {
	atomic.AddUint64(&m.eventsCreated, 1)
}

// IncEventUpdated increments the event updated counter.
func (m *InMemoryRecorder) IncEventUpdated() {
	atomic.AddUint64(&m.eventsUpdated, 1)
}

// IncEventDeleted increments the event deleted counter.
func (m *InMemoryRecorder) IncEventDeleted() {
	atomic.AddUint64(&m.eventsDeleted, 1)
}

// IncReorderApplied increments the reorder counter.
func (m *InMemoryRecorder) IncReorderApplied() {
	atomic.AddUint64(&m.reordersApplied, 1)
}

// IncInteractionRecorded increments the interaction counter for the status.
func (m *InMemoryRecorder) IncInteractionRecorded(status string) {
	switch status {
	case "unique":
		atomic.AddUint64(&m.interactionsUnique, 1)
	case "repeat":
		atomic.AddUint64(&m.interactionsRepeat, 1)
	default:
		atomic.AddUint64(&m.interactionsDropped, 1)
	}
}

// IncAuthAttempt increments the credential check counter for the status.
func (m *InMemoryRecorder) IncAuthAttempt(status string) {
	if status == "ok" {
		atomic.AddUint64(&m.authAttemptsOK, 1)
	} else {
		atomic.AddUint64(&m.authAttemptsDenied, 1)
	}
}
