package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eventwall/eventwall/internal/model"
)

// InteractionFilter defines filters for listing analytics records.
type InteractionFilter struct {
	// Type restricts results to a single interaction type.
	Type *model.InteractionType
	// TargetKey restricts results to a single target.
	TargetKey *string
	// Since keeps only records with created_at strictly after this instant.
	// Nil means no lower time bound (the all-time view).
	Since *time.Time
	// RequireTarget drops records whose target key is NULL. Used by the
	// grouped click views, which have no meaningful bucket for NULL.
	RequireTarget bool
}

// InsertInteraction appends an analytics record. Records are immutable once
// written; there is no corresponding update or delete.
func (r *Repository) InsertInteraction(ctx context.Context, in *model.Interaction) error {
	query := `
		INSERT INTO interactions (id, interaction_type, target_key, ip_hash, ua_hash, is_unique, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		in.ID,
		string(in.Type),
		in.TargetKey,
		in.IPHash,
		in.UAHash,
		in.IsUnique,
		in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	return nil
}

// CountRecentMatches counts records with the same identity hashes, type and
// target key created after the given instant. Target keys compare with
// IS NOT DISTINCT FROM so two NULL keys (page views) share a dedup bucket.
func (r *Repository) CountRecentMatches(ctx context.Context, ipHash, uaHash string, typ model.InteractionType, targetKey *string, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM interactions
		WHERE ip_hash = $1
		  AND ua_hash = $2
		  AND interaction_type = $3
		  AND target_key IS NOT DISTINCT FROM $4
		  AND created_at > $5
	`

	var count int64
	err := r.pool.QueryRow(ctx, query, ipHash, uaHash, string(typ), targetKey, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent interactions: %w", err)
	}

	return count, nil
}

// ListInteractions retrieves analytics records matching the filter, oldest
// first. Aggregation happens at the service layer.
func (r *Repository) ListInteractions(ctx context.Context, filter InteractionFilter) ([]*model.Interaction, error) {
	query := `
		SELECT id, interaction_type, target_key, ip_hash, ua_hash, is_unique, created_at
		FROM interactions
		WHERE 1=1
	`
	var args []any
	argIndex := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND interaction_type = $%d", argIndex)
		args = append(args, string(*filter.Type))
		argIndex++
	}

	if filter.TargetKey != nil {
		query += fmt.Sprintf(" AND target_key = $%d", argIndex)
		args = append(args, *filter.TargetKey)
		argIndex++
	}

	if filter.RequireTarget {
		query += " AND target_key IS NOT NULL"
	}

	if filter.Since != nil {
		query += fmt.Sprintf(" AND created_at > $%d", argIndex)
		args = append(args, *filter.Since)
		argIndex++
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*model.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return interactions, nil
}

// scanInteraction scans a single row into an Interaction model.
func scanInteraction(row pgx.Row) (*model.Interaction, error) {
	var in model.Interaction
	var typ string
	err := row.Scan(
		&in.ID,
		&typ,
		&in.TargetKey,
		&in.IPHash,
		&in.UAHash,
		&in.IsUnique,
		&in.CreatedAt,
	)
	in.Type = model.InteractionType(typ)
	return &in, err
}
