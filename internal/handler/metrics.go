package handler

import (
	"fmt"
	"net/http"

	"github.com/eventwall/eventwall/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "eventwall_event_list_cache_hits_total %d\n", snap.EventListCacheHits)
	writeMetric(w, "eventwall_event_list_cache_misses_total %d\n", snap.EventListCacheMisses)

	writeMetric(w, "eventwall_events_created_total %d\n", snap.EventsCreated)
	writeMetric(w, "eventwall_events_updated_total %d\n", snap.EventsUpdated)
	writeMetric(w, "eventwall_events_deleted_total %d\n", snap.EventsDeleted)
	writeMetric(w, "eventwall_reorders_applied_total %d\n", snap.ReordersApplied)

	writeMetric(w, "eventwall_interactions_recorded_total{status=\"unique\"} %d\n", snap.InteractionsUnique)
	writeMetric(w, "eventwall_interactions_recorded_total{status=\"repeat\"} %d\n", snap.InteractionsRepeat)
	writeMetric(w, "eventwall_interactions_recorded_total{status=\"dropped\"} %d\n", snap.InteractionsDropped)

	writeMetric(w, "eventwall_auth_attempts_total{status=\"ok\"} %d\n", snap.AuthAttemptsOK)
	writeMetric(w, "eventwall_auth_attempts_total{status=\"denied\"} %d\n", snap.AuthAttemptsDenied)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
