// Package model defines domain entities for the application.
package model

import "time"

// InteractionType classifies a tracked interaction.
type InteractionType string

const (
	InteractionPageView    InteractionType = "page_view"
	InteractionEventClick  InteractionType = "event_click"
	InteractionButtonClick InteractionType = "button_click"
)

// IsValid checks if the interaction type is one of the tracked kinds.
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionPageView, InteractionEventClick, InteractionButtonClick:
		return true
	}
	return false
}

// Interaction is a single append-only analytics record. It is never updated
// or deleted after insertion; IsUnique is computed at write time against the
// trailing 24-hour window and frozen into the row, so read-side queries
// trust the stored bit.
type Interaction struct {
	ID   string          `json:"id"` // ULID (time-sortable)
	Type InteractionType `json:"type"`

	// TargetKey disambiguates clicks: the event id for event_click, the
	// button name for button_click, nil for page_view.
	TargetKey *string `json:"target_key,omitempty"`

	// Privacy-safe visitor identification. Raw IP and User-Agent are never
	// stored; only their salted one-way hashes.
	IPHash string `json:"ip_hash"`
	UAHash string `json:"ua_hash"`

	IsUnique  bool      `json:"is_unique"`
	CreatedAt time.Time `json:"created_at"`
}

// DedupWindow is the rolling lookback used to classify an interaction as a
// unique occurrence for an identity/target pair.
const DedupWindow = 24 * time.Hour

// InteractionCounts holds a total/unique pair for an ungrouped aggregate.
type InteractionCounts struct {
	Total  int64 `json:"total"`
	Unique int64 `json:"unique"`
}

// TargetCounts holds per-target click totals.
type TargetCounts struct {
	TargetKey string `json:"target_key"`
	Total     int64  `json:"total"`
	Unique    int64  `json:"unique"`
}

// TimelineBucket holds one (calendar day, type) cell of the recent-activity
// timeline. Date is a UTC calendar date in YYYY-MM-DD form.
type TimelineBucket struct {
	Date   string          `json:"date"`
	Type   InteractionType `json:"type"`
	Total  int64           `json:"total"`
	Unique int64           `json:"unique"`
}

// AnalyticsReport is the computed aggregate view for the admin dashboard.
// Sections are populated according to the requested type scope.
type AnalyticsReport struct {
	PageViews           *InteractionCounts `json:"page_views,omitempty"`
	EventClicks         *InteractionCounts `json:"event_clicks,omitempty"`
	EventClicksByTarget []TargetCounts     `json:"event_clicks_by_event,omitempty"`
	ButtonClicks        []TargetCounts     `json:"button_clicks,omitempty"`
	Timeline            []TimelineBucket   `json:"timeline,omitempty"`
	GeneratedAt         time.Time          `json:"generated_at"`
}
