// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eventwall/eventwall/internal/metrics"
	"github.com/eventwall/eventwall/internal/model"
	"github.com/eventwall/eventwall/internal/repository"
)

// Service errors.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrNameRequired     = errors.New("event name is required")
	ErrLinkRequired     = errors.New("event link is required")
	ErrInvalidDate      = errors.New("invalid calendar date, want YYYY-MM-DD")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// dateRegex matches the YYYY-MM-DD calendar date form. The exact format
// matters: visibility comparisons are lexicographic over these strings.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// EventStore is the persistence surface the event service depends on.
type EventStore interface {
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	MaxOrder(ctx context.Context) (int, error)
	UpdateEvent(ctx context.Context, id string, update repository.EventUpdate) error
	DeleteEvent(ctx context.Context, id string) error
	ReorderAll(ctx context.Context, orderedIDs []string) error
}

// EventListCache caches the full ordered event list.
type EventListCache interface {
	GetEventList(ctx context.Context) ([]*model.Event, error)
	SetEventList(ctx context.Context, events []*model.Event, ttl time.Duration) error
	InvalidateEventList(ctx context.Context) error
}

// EventService handles event listing, CRUD and ordering.
type EventService struct {
	store    EventStore
	cache    EventListCache // nil disables caching
	cacheTTL time.Duration
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(store EventStore, cache EventListCache, cacheTTL time.Duration, recorder metrics.Recorder) *EventService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EventService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  recorder,
		now:      time.Now,
	}
}

// CreateEventInput defines input for creating an event.
type CreateEventInput struct {
	Name       string
	Link       string
	CoverImage string
	Active     *bool // nil defaults to true
	StartDate  string
	EndDate    string
}

// CreateEvent validates the input and appends a new event at the end of the
// display sequence (order = current max + 1).
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*model.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Link) == "" {
		return nil, ErrLinkRequired
	}
	if err := validateDate(input.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate(input.EndDate); err != nil {
		return nil, err
	}

	maxOrder, err := s.store.MaxOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max order: %w", err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := s.now().UTC()
	event := &model.Event{
		ID:         ulid.Make().String(),
		Name:       input.Name,
		Link:       input.Link,
		CoverImage: input.CoverImage,
		Order:      maxOrder + 1,
		Active:     active,
		StartDate:  optionalDate(input.StartDate),
		EndDate:    optionalDate(input.EndDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateCache(ctx)
	s.metrics.IncEventCreated()

	return event, nil
}

// ListEvents returns the full event set sorted ascending by order.
// Serves from cache when possible; visibility filtering is not applied here.
func (s *EventService) ListEvents(ctx context.Context) ([]*model.Event, error) {
	if s.cache != nil {
		if events, err := s.cache.GetEventList(ctx); err == nil {
			s.metrics.IncEventListCacheHit()
			return events, nil
		}
		s.metrics.IncEventListCacheMiss()
	}

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	model.SortByOrder(events)

	if s.cache != nil {
		// Cache population is best-effort
		_ = s.cache.SetEventList(ctx, events, s.cacheTTL)
	}

	return events, nil
}

// VisibleEvents returns the publicly visible events for the given day,
// sorted ascending by order. An empty day means "today" in UTC.
func (s *EventService) VisibleEvents(ctx context.Context, today string) ([]*model.Event, error) {
	if today == "" {
		today = s.now().UTC().Format(model.DateLayout)
	} else if err := validateDate(today); err != nil {
		return nil, err
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	return model.VisibleEvents(events, today), nil
}

// UpdateEventInput defines a partial update. Nil fields are untouched; an
// empty StartDate or EndDate clears that bound.
type UpdateEventInput struct {
	ID         string
	Name       *string
	Link       *string
	CoverImage *string
	Order      *int
	Active     *bool
	StartDate  *string
	EndDate    *string
}

// UpdateEvent applies a partial update to an event.
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return ErrNameRequired
	}
	if input.Link != nil && strings.TrimSpace(*input.Link) == "" {
		return ErrLinkRequired
	}
	if input.StartDate != nil {
		if err := validateDate(*input.StartDate); err != nil {
			return err
		}
	}
	if input.EndDate != nil {
		if err := validateDate(*input.EndDate); err != nil {
			return err
		}
	}

	update := repository.EventUpdate{
		Name:       input.Name,
		Link:       input.Link,
		CoverImage: input.CoverImage,
		Order:      input.Order,
		Active:     input.Active,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}

	if err := s.store.UpdateEvent(ctx, input.ID, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return ErrEventNotFound
		case errors.Is(err, repository.ErrNoEventFields):
			return ErrNoFieldsToUpdate
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateCache(ctx)
	s.metrics.IncEventUpdated()

	return nil
}

// DeleteEvent removes an event permanently.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateCache(ctx)
	s.metrics.IncEventDeleted()

	return nil
}

// Move repositions the event at fromIndex in the rank-sorted sequence to
// toIndex and renumbers every event's order to its new positional index.
// The renumbering is persisted in a single transaction: either every rank
// updates or none do. Both indices must satisfy 0 <= index < count.
func (s *EventService) Move(ctx context.Context, fromIndex, toIndex int) error {
	// Moves must see the current persisted sequence, never a cached one.
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	model.SortByOrder(events)

	count := len(events)
	if fromIndex < 0 || fromIndex >= count {
		return fmt.Errorf("fromIndex %d: %w", fromIndex, ErrIndexOutOfRange)
	}
	if toIndex < 0 || toIndex >= count {
		return fmt.Errorf("toIndex %d: %w", toIndex, ErrIndexOutOfRange)
	}

	if fromIndex == toIndex {
		// Legal no-op; the sequence is already in the requested state.
		return nil
	}

	ids := make([]string, count)
	for i, event := range events {
		ids[i] = event.ID
	}

	if err := s.store.ReorderAll(ctx, moveIndex(ids, fromIndex, toIndex)); err != nil {
		return fmt.Errorf("failed to reorder events: %w", err)
	}

	s.invalidateCache(ctx)
	s.metrics.IncReorderApplied()

	return nil
}

// moveIndex returns a copy of ids with the element at from removed and
// reinserted at to, matching array splice semantics: when to > from, the
// removal first shifts the later elements down by one.
func moveIndex(ids []string, from, to int) []string {
	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)

	out = append(out, "")
	copy(out[to+1:], out[to:])
	out[to] = ids[from]

	return out
}

// invalidateCache drops the cached event list after any write.
func (s *EventService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateEventList(ctx)
	}
}

// validateDate accepts an empty string (unbounded) or a YYYY-MM-DD date.
func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if !dateRegex.MatchString(date) {
		return ErrInvalidDate
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// optionalDate maps an empty string to a nil (unbounded) date.
func optionalDate(date string) *string {
	if date == "" {
		return nil
	}
	return &date
}
