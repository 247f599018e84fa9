// Package model defines domain entities for the application.
package model

import (
	"sort"
	"time"
)

// Event represents a single card on the public listing.
// Order defines the display position, ascending. StartDate and EndDate are
// calendar dates in YYYY-MM-DD form; a nil bound means "unbounded" on that
// side. The format is preserved exactly so that lexicographic comparison is
// a valid calendar comparison.
type Event struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Link       string  `json:"link"`
	CoverImage string  `json:"coverImage"`
	Order      int     `json:"order"`
	Active     bool    `json:"active"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the calendar date format used for visibility windows.
const DateLayout = "2006-01-02"

// VisibleOn reports whether the event is publicly visible on the given day.
// Both window bounds are inclusive: an event whose EndDate equals today is
// still shown and expires the day after.
func (e *Event) VisibleOn(today string) bool {
	if !e.Active {
		return false
	}
	if e.StartDate != nil && *e.StartDate != "" && *e.StartDate > today {
		return false
	}
	if e.EndDate != nil && *e.EndDate != "" && *e.EndDate < today {
		return false
	}
	return true
}

// SortByOrder sorts events ascending by their order rank, in place.
// Ties break on ID to keep the result deterministic.
func SortByOrder(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Order != events[j].Order {
			return events[i].Order < events[j].Order
		}
		return events[i].ID < events[j].ID
	})
}

// VisibleEvents returns the subset of events visible on the given day,
// sorted ascending by order. The input slice is not modified.
func VisibleEvents(events []*Event, today string) []*Event {
	visible := make([]*Event, 0, len(events))
	for _, e := range events {
		if e.VisibleOn(today) {
			visible = append(visible, e)
		}
	}
	SortByOrder(visible)
	return visible
}
