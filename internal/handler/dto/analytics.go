package dto

import (
	"time"

	"github.com/eventwall/eventwall/internal/model"
)

// TrackRequest represents an incoming interaction signal.
// event_id takes precedence over button_name when both are present.
type TrackRequest struct {
	Type       string `json:"type"`
	EventID    string `json:"event_id,omitempty"`
	ButtonName string `json:"button_name,omitempty"`
}

// TrackResponse acknowledges a tracked interaction. Success is false when
// the record could not be persisted; tracking is best-effort and that case
// is not an error for the caller.
type TrackResponse struct {
	Success  bool   `json:"success"`
	IsUnique bool   `json:"is_unique"`
	ID       string `json:"id,omitempty"`
}

// PageViewStats holds the ungrouped page view aggregate.
type PageViewStats struct {
	TotalViews  int64 `json:"total_views"`
	UniqueViews int64 `json:"unique_views"`
}

// ClickStats holds a total/unique click pair scoped to one target.
type ClickStats struct {
	TotalClicks  int64 `json:"total_clicks"`
	UniqueClicks int64 `json:"unique_clicks"`
}

// EventClickRow is one bucket of the per-event click breakdown.
type EventClickRow struct {
	EventID      string `json:"event_id"`
	TotalClicks  int64  `json:"total_clicks"`
	UniqueClicks int64  `json:"unique_clicks"`
}

// ButtonClickRow is one bucket of the per-button click breakdown.
type ButtonClickRow struct {
	ButtonName   string `json:"button_name"`
	TotalClicks  int64  `json:"total_clicks"`
	UniqueClicks int64  `json:"unique_clicks"`
}

// TimelineRow is one (day, type) cell of the recent-activity timeline.
type TimelineRow struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Count       int64  `json:"count"`
	UniqueCount int64  `json:"unique_count"`
}

// AnalyticsReportResponse is the aggregate report body. Sections are
// present according to the requested scope.
type AnalyticsReportResponse struct {
	PageViews          *PageViewStats   `json:"page_views,omitempty"`
	EventClicks        *ClickStats      `json:"event_clicks,omitempty"`
	EventClicksByEvent []EventClickRow  `json:"event_clicks_by_event,omitempty"`
	ButtonClicks       []ButtonClickRow `json:"button_clicks,omitempty"`
	Timeline           []TimelineRow    `json:"timeline,omitempty"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// ToAnalyticsReportResponse converts an AnalyticsReport model to its wire
// representation.
func ToAnalyticsReportResponse(report *model.AnalyticsReport) *AnalyticsReportResponse {
	resp := &AnalyticsReportResponse{GeneratedAt: report.GeneratedAt}

	if report.PageViews != nil {
		resp.PageViews = &PageViewStats{
			TotalViews:  report.PageViews.Total,
			UniqueViews: report.PageViews.Unique,
		}
	}

	if report.EventClicks != nil {
		resp.EventClicks = &ClickStats{
			TotalClicks:  report.EventClicks.Total,
			UniqueClicks: report.EventClicks.Unique,
		}
	}

	for _, row := range report.EventClicksByTarget {
		resp.EventClicksByEvent = append(resp.EventClicksByEvent, EventClickRow{
			EventID:      row.TargetKey,
			TotalClicks:  row.Total,
			UniqueClicks: row.Unique,
		})
	}

	for _, row := range report.ButtonClicks {
		resp.ButtonClicks = append(resp.ButtonClicks, ButtonClickRow{
			ButtonName:   row.TargetKey,
			TotalClicks:  row.Total,
			UniqueClicks: row.Unique,
		})
	}

	for _, bucket := range report.Timeline {
		resp.Timeline = append(resp.Timeline, TimelineRow{
			Date:        bucket.Date,
			Type:        string(bucket.Type),
			Count:       bucket.Total,
			UniqueCount: bucket.Unique,
		})
	}

	return resp
}

// AuthRequest carries the shared admin password.
type AuthRequest struct {
	Password string `json:"password"`
}

// AuthResponse reports the outcome of a credential check.
type AuthResponse struct {
	Authenticated bool `json:"authenticated"`
}
