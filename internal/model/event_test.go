package model

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestVisibleOn(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		today string
		want  bool
	}{
		{
			name:  "active_no_bounds",
			event: Event{Active: true},
			today: "2025-06-15",
			want:  true,
		},
		{
			name:  "inactive_always_hidden",
			event: Event{Active: false},
			today: "2025-06-15",
			want:  false,
		},
		{
			name:  "inside_window",
			event: Event{Active: true, StartDate: strPtr("2025-06-01"), EndDate: strPtr("2025-06-30")},
			today: "2025-06-15",
			want:  true,
		},
		{
			name:  "start_day_inclusive",
			event: Event{Active: true, StartDate: strPtr("2025-06-15")},
			today: "2025-06-15",
			want:  true,
		},
		{
			name:  "end_day_inclusive",
			event: Event{Active: true, EndDate: strPtr("2025-06-15")},
			today: "2025-06-15",
			want:  true,
		},
		{
			name:  "day_after_end",
			event: Event{Active: true, EndDate: strPtr("2025-06-15")},
			today: "2025-06-16",
			want:  false,
		},
		{
			name:  "day_before_start",
			event: Event{Active: true, StartDate: strPtr("2025-06-15")},
			today: "2025-06-14",
			want:  false,
		},
		{
			name:  "empty_bounds_are_open",
			event: Event{Active: true, StartDate: strPtr(""), EndDate: strPtr("")},
			today: "2025-06-15",
			want:  true,
		},
		{
			name:  "inactive_inside_window",
			event: Event{Active: false, StartDate: strPtr("2025-06-01"), EndDate: strPtr("2025-06-30")},
			today: "2025-06-15",
			want:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.event.VisibleOn(test.today); got != test.want {
				t.Errorf("VisibleOn(%q) = %v, want %v", test.today, got, test.want)
			}
		})
	}
}

func TestSortByOrder(t *testing.T) {
	events := []*Event{
		{ID: "c", Order: 2},
		{ID: "a", Order: 0},
		{ID: "b2", Order: 1},
		{ID: "b1", Order: 1},
	}

	SortByOrder(events)

	got := make([]string, len(events))
	for i, e := range events {
		got[i] = e.ID
	}
	// Equal orders break ties on ID
	want := []string{"a", "b1", "b2", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestVisibleEvents(t *testing.T) {
	events := []*Event{
		{ID: "late", Order: 3, Active: true},
		{ID: "hidden", Order: 1, Active: false},
		{ID: "early", Order: 0, Active: true},
		{ID: "expired", Order: 2, Active: true, EndDate: strPtr("2025-01-01")},
	}

	visible := VisibleEvents(events, "2025-06-15")

	got := make([]string, len(visible))
	for i, e := range visible {
		got[i] = e.ID
	}
	want := []string{"early", "late"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Input order must be untouched
	if events[0].ID != "late" {
		t.Error("expected the input slice to be unmodified")
	}
}

func TestInteractionTypeIsValid(t *testing.T) {
	valid := []InteractionType{InteractionPageView, InteractionEventClick, InteractionButtonClick}
	for _, typ := range valid {
		if !typ.IsValid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}

	invalid := []InteractionType{"", "hover", "PAGE_VIEW", "click"}
	for _, typ := range invalid {
		if typ.IsValid() {
			t.Errorf("expected %q to be invalid", typ)
		}
	}
}
