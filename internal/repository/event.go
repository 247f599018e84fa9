package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eventwall/eventwall/internal/model"
)

// Common errors for event repository operations.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrNoEventFields = errors.New("no event fields to update")
)

// EventUpdate describes a partial update to an event. Nil fields are left
// untouched. An empty-string StartDate or EndDate clears the bound (NULL).
type EventUpdate struct {
	Name       *string
	Link       *string
	CoverImage *string
	Order      *int
	Active     *bool
	StartDate  *string
	EndDate    *string
}

// IsEmpty reports whether the update carries no recognized field.
func (u EventUpdate) IsEmpty() bool {
	return u.Name == nil && u.Link == nil && u.CoverImage == nil &&
		u.Order == nil && u.Active == nil && u.StartDate == nil && u.EndDate == nil
}

// CreateEvent inserts a new event into the database.
func (r *Repository) CreateEvent(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (id, name, link, cover_image, display_order, active, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Link,
		event.CoverImage,
		event.Order,
		event.Active,
		nullableDate(event.StartDate),
		nullableDate(event.EndDate),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetEventByID retrieves an event by its ID.
func (r *Repository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	query := `
		SELECT id, name, link, cover_image, display_order, active, start_date, end_date, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return event, nil
}

// ListEvents retrieves every event sorted ascending by display order.
// Ties break on id to keep the sequence stable.
func (r *Repository) ListEvents(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT id, name, link, cover_image, display_order, active, start_date, end_date, created_at, updated_at
		FROM events
		ORDER BY display_order ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// MaxOrder returns the highest display order across all events, 0 when the
// table is empty. Used to place a newly created event last.
func (r *Repository) MaxOrder(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), 0) FROM events`

	var max int
	if err := r.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}

	return max, nil
}

// UpdateEvent applies a partial update to an event.
func (r *Repository) UpdateEvent(ctx context.Context, id string, update EventUpdate) error {
	if update.IsEmpty() {
		return ErrNoEventFields
	}

	// Build the SET clause dynamically from the provided fields
	sets := make([]string, 0, 8)
	args := []any{id}
	argIndex := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Link != nil {
		addSet("link", *update.Link)
	}
	if update.CoverImage != nil {
		addSet("cover_image", *update.CoverImage)
	}
	if update.Order != nil {
		addSet("display_order", *update.Order)
	}
	if update.Active != nil {
		addSet("active", *update.Active)
	}
	if update.StartDate != nil {
		addSet("start_date", nullableDate(update.StartDate))
	}
	if update.EndDate != nil {
		addSet("end_date", nullableDate(update.EndDate))
	}

	query := "UPDATE events SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += ", updated_at = NOW() WHERE id = $1"

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// DeleteEvent removes an event permanently.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// ReorderAll rewrites every event's display order to its position in
// orderedIDs, inside a single transaction. Either all ranks update or none
// do, so a failure mid-sequence never persists a partially renumbered set.
func (r *Repository) ReorderAll(ctx context.Context, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE events SET display_order = $1, updated_at = NOW() WHERE id = $2`
	for index, id := range orderedIDs {
		result, err := tx.Exec(ctx, query, index, id)
		if err != nil {
			return fmt.Errorf("failed to renumber event %s: %w", id, err)
		}
		if result.RowsAffected() == 0 {
			// The event set changed under us; abort rather than persist a
			// renumbering computed from a stale snapshot.
			return fmt.Errorf("renumber event %s: %w", id, ErrEventNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder transaction: %w", err)
	}

	return nil
}

// scanEvent scans a single row into an Event model.
func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Link,
		&event.CoverImage,
		&event.Order,
		&event.Active,
		&event.StartDate,
		&event.EndDate,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return &event, err
}

// nullableDate maps a nil or empty calendar date to SQL NULL.
func nullableDate(date *string) any {
	if date == nil || *date == "" {
		return nil
	}
	return *date
}
